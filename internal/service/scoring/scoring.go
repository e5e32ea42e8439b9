// Package scoring derives the size tier of a business from its review volume.
package scoring

import "github.com/octobees/leads-generator/collector/internal/entity"

const (
	mediumThreshold = 20
	largeThreshold  = 100
)

// ClassifySize maps a ratings count to a size tier. A nil count is treated the
// same as zero.
func ClassifySize(count *int) entity.SizeTier {
	if count == nil {
		return entity.SizeSmall
	}
	return ClassifyCount(*count)
}

// ClassifyCount is ClassifySize for a count that is known to be present.
func ClassifyCount(count int) entity.SizeTier {
	switch {
	case count >= largeThreshold:
		return entity.SizeLarge
	case count >= mediumThreshold:
		return entity.SizeMedium
	default:
		return entity.SizeSmall
	}
}
