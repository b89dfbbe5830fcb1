package contract

import (
	"healthmate-be/internal/entity"
)

// ISnapshotRepository persists the full corpus rows of the currently
// recommended recipes so the frontend can render them. Snapshots are
// replaced wholesale before every recommendation.
type ISnapshotRepository interface {
	Clear() error
	Write(rank int, rows []entity.FullRow) error
}
