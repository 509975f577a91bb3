package tui

import (
	"fmt"
	"strings"

	"github.com/ttakei/newsarc/internal/archive"
)

type expandDoneMsg struct {
	results []archive.LoadResult
}

type openErrMsg struct {
	err error
}

// expandFailure folds a batch's per-partition failures into one status
// message. A lone failure keeps its cause; several report every key so
// none goes unmentioned.
func expandFailure(results []archive.LoadResult) error {
	var failed []string
	var first error
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res.Key)
			if first == nil {
				first = res.Err
			}
		}
	}
	switch len(failed) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("partition %s: %w", failed[0], first)
	default:
		return fmt.Errorf("%d partitions failed: %s", len(failed), strings.Join(failed, ", "))
	}
}
