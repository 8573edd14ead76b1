package sourcing

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

// SaveChunks writes entities in fixed-size batches inside one transaction.
// A failing batch rolls back everything written so far. After each batch
// onChunk receives the overall progress, interpolated linearly from
// startProgress up to 100.
func SaveChunks[T any](dbc dbctx.Context, db *gorm.DB, entities []*T, chunkSize int, startProgress float64, onChunk func(progress float64)) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if len(entities) == 0 {
		return nil
	}

	tx := dbc.Tx
	ownTx := tx == nil
	if ownTx {
		tx = db.WithContext(dbc.Ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		defer tx.Rollback()
	}

	total := len(entities)
	chunks := (total + chunkSize - 1) / chunkSize
	for i := 0; i < total; i += chunkSize {
		end := i + chunkSize
		if end > total {
			end = total
		}
		chunk := entities[i:end]
		if err := tx.WithContext(dbc.Ctx).Create(&chunk).Error; err != nil {
			return fmt.Errorf("failed to save chunk %d of %d: %w", i/chunkSize+1, chunks, err)
		}
		if onChunk != nil {
			done := i/chunkSize + 1
			onChunk(ChunkProgress(startProgress, done, chunks))
		}
	}

	if ownTx {
		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit chunked save: %w", err)
		}
	}
	return nil
}

// ChunkProgress maps "done of total batches" onto the startProgress..100
// range.
func ChunkProgress(startProgress float64, done, total int) float64 {
	if total <= 0 {
		return 100
	}
	return startProgress + (100-startProgress)*float64(done)/float64(total)
}
