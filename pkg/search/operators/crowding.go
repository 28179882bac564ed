package operators

import (
	"slices"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// BoundaryCrowdingDistance is assigned to the extreme encodings of a front.
const BoundaryCrowdingDistance = 2.0

// CrowdingDistance sets the crowding distance of every encoding in front.
// The order of front is not changed.
func CrowdingDistance(front []framework.Encoding, objectives []framework.ObjectiveFunction) {
	if len(front) <= 2 {
		for _, e := range front {
			e.SetCrowdingDistance(BoundaryCrowdingDistance)
		}
		return
	}

	for _, e := range front {
		e.SetCrowdingDistance(0)
	}
	boundary := make(map[string]bool)
	sorted := slices.Clone(front)

	for _, o := range objectives {
		slices.SortStableFunc(sorted, func(a, b framework.Encoding) int {
			da, db := Distance(a, o), Distance(b, o)
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			default:
				return 0
			}
		})

		first, last := sorted[0], sorted[len(sorted)-1]
		minimum, maximum := Distance(first, o), Distance(last, o)
		if maximum == minimum {
			continue
		}
		boundary[first.ID()] = true
		boundary[last.ID()] = true
		for i := 1; i < len(sorted)-1; i++ {
			delta := (Distance(sorted[i+1], o) - Distance(sorted[i-1], o)) / (maximum - minimum)
			sorted[i].SetCrowdingDistance(sorted[i].CrowdingDistance() + delta)
		}
	}

	for _, e := range front {
		if boundary[e.ID()] {
			e.SetCrowdingDistance(BoundaryCrowdingDistance)
		}
	}
}

// SortByCrowding orders front by descending crowding distance. Ties keep
// their relative order.
func SortByCrowding(front []framework.Encoding) {
	slices.SortStableFunc(front, func(a, b framework.Encoding) int {
		switch {
		case a.CrowdingDistance() > b.CrowdingDistance():
			return -1
		case a.CrowdingDistance() < b.CrowdingDistance():
			return 1
		default:
			return 0
		}
	})
}
