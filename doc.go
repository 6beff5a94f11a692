// Package quizsync is the Composition Root for the quizsync application.
//
// quizsync edits the level files of a quiz game that live in a GitHub
// repository. It fetches a file through the contents API, lets you edit it
// locally, and writes it back carrying the blob SHA it started from, so a
// concurrent edit is reported as a conflict instead of being overwritten.
// Quiz questions are assembled from form fields into the block format the
// game reads, and the images they reference are uploaded in one batch.
//
// Features:
//
//   - **Conflict-safe writes**: every write sends the version tag of the last read.
//   - **Activity log**: each operation records a success or error entry.
//   - **Batch uploads**: independent per item, sequential or bounded-parallel.
//   - **Pure assembler**: `quiz.Session.Build` returns the text and its assets together.
//   - **Adapters**: GitHub REST (`pkg/adapters/github`) or in-memory (`pkg/adapters/memory`) via `core.Remote`.
//
// Usage:
//
//	svc, err := quizsync.New(ctx,
//		quizsync.WithRepo("octo", "quiz-game"),
//		quizsync.WithCredential(os.Getenv("GITHUB_TOKEN")),
//		quizsync.WithLogger(logger),
//	)
//
//	file, err := svc.FetchFile(ctx, "levels.js")
//	file, err = svc.Replace(file, "level: 1", "level: 2")
//	file, err = svc.WriteFile(ctx, file)
package quizsync
