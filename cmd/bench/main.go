// Command bench measures batch upload throughput at several concurrency
// levels against the in-memory remote with a simulated round trip.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/quizsync"
	"github.com/aretw0/quizsync/pkg/adapters/memory"
	"github.com/aretw0/quizsync/pkg/core"
)

func main() {
	count := flag.Int("count", 200, "Number of assets per batch")
	size := flag.Int("size", 32*1024, "Payload size in bytes")
	latency := flag.Duration("latency", 20*time.Millisecond, "Simulated round trip per API call")
	levels := flag.String("concurrency", "1,2,4,8", "Comma-separated concurrency levels")
	verbose := flag.Bool("v", false, "Log every upload")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	payload := make([]byte, *size)
	for i := range payload {
		payload[i] = byte(i)
	}

	items := make([]core.AssetUploadItem, *count)
	for i := range items {
		items[i] = core.AssetUploadItem{
			ID:        fmt.Sprintf("asset-%d", i),
			Payload:   payload,
			Filename:  fmt.Sprintf("img-%d.png", i),
			Directory: "assets",
		}
	}

	fmt.Printf("Uploading %d assets of %d bytes, %v per call\n", *count, *size, *latency)

	for _, field := range strings.Split(*levels, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "invalid concurrency %q\n", field)
			os.Exit(1)
		}

		remote := memory.New()
		remote.Latency = *latency

		svc, err := quizsync.New(context.Background(),
			quizsync.WithRemote(remote),
			quizsync.WithCredential("bench"),
			quizsync.WithConcurrency(n),
			quizsync.WithLogger(logger),
		)
		if err != nil {
			panic(err)
		}

		start := time.Now()
		results, err := svc.UploadAll(context.Background(), items)
		if err != nil {
			panic(err)
		}
		elapsed := time.Since(start)

		ok := 0
		for _, v := range results {
			if v {
				ok++
			}
		}
		rate := float64(ok) / elapsed.Seconds()
		fmt.Printf("concurrency=%-3d ok=%d/%d took=%v (%.1f assets/s)\n", n, ok, len(items), elapsed.Round(time.Millisecond), rate)
	}
}
