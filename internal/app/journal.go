package app

import (
	"go.uber.org/zap"

	"github.com/ayusman/heartsketch/internal/interaction"
	"github.com/ayusman/heartsketch/internal/store"
)

// newJournal returns a listener that appends each detection to the store.
func newJournal(s *store.Store, logger *zap.Logger) interaction.Listener {
	return interaction.ListenerFuncs{
		Heart: func(d interaction.Detection) {
			err := s.Detections().Create(toRecord(d))
			if err != nil {
				logger.Warn("failed to journal detection", zap.String("id", d.ID), zap.Error(err))
			}
		},
	}
}

func toRecord(d interaction.Detection) *store.Detection {
	return &store.Detection{
		ID:         d.ID,
		CreatedAt:  d.At,
		PointCount: len(d.Trail),
		Width:      d.Analysis.Bounds.Width(),
		Height:     d.Analysis.Bounds.Height(),
		Aspect:     d.Analysis.Aspect,
		Similarity: d.Similarity,
		Trail:      d.Trail,
		Outline:    d.Outline,
	}
}
