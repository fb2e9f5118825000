package roster

import (
	"sort"
	"strings"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// positionGroupRank orders starters for display. Flex slots sit between TE
// and DEF; anything unrecognized sorts last within starters.
var positionGroupRank = map[string]int{
	"QB":  0,
	"RB":  1,
	"WR":  2,
	"TE":  3,
	"DEF": 5,
	"DST": 5,
	"K":   6,
}

const (
	flexRank    = 4
	unknownRank = 7
)

var flexSlotMarkers = []string{"FLEX", "W/R", "WR/RB", "RB/WR"}

// IsFlexSlot reports whether a raw slot label is a flex slot in any of the
// source generations' spellings.
func IsFlexSlot(slot string) bool {
	s := strings.ToUpper(strings.TrimSpace(slot))
	for _, marker := range flexSlotMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// concretePosition returns the slot label when it names an actual position,
// and "" for flex, bench, and other structural slots.
func concretePosition(slot string) string {
	s := strings.ToUpper(strings.TrimSpace(slot))
	if IsFlexSlot(s) {
		return ""
	}
	if _, ok := positionGroupRank[s]; ok {
		if s == "DST" {
			return "DEF"
		}
		return s
	}
	return ""
}

func displayRank(row model.WeeklyRow) int {
	if IsFlexSlot(row.Slot) {
		return flexRank
	}
	if r, ok := positionGroupRank[strings.ToUpper(strings.TrimSpace(row.Slot))]; ok {
		return r
	}
	if r, ok := positionGroupRank[strings.ToUpper(row.Position)]; ok {
		return r
	}
	return unknownRank
}

// OrderForDisplay returns a copy of rows in presentation order: starters
// before bench, starters grouped QB, RB, WR, TE, flex, DEF, K, then by
// points descending, with source order breaking ties. Bench rows keep their
// source order. When sourceOrder is set the export's own ordering is
// authoritative and rows are returned exactly as listed.
func OrderForDisplay(rows []model.WeeklyRow, sourceOrder bool) []model.WeeklyRow {
	out := make([]model.WeeklyRow, len(rows))
	copy(out, rows)

	if sourceOrder {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SourceOrder < out[j].SourceOrder
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Started != b.Started {
			return a.Started
		}
		if !a.Started {
			return a.SourceOrder < b.SourceOrder
		}
		ra, rb := displayRank(a), displayRank(b)
		if ra != rb {
			return ra < rb
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.SourceOrder < b.SourceOrder
	})
	return out
}
