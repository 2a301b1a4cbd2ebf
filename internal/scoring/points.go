package scoring

// Points awarded to a category pick by its position in the category ranking
const (
	FirstPlacePoints  = 15
	SecondPlacePoints = 10
	ThirdPlacePoints  = 5
)

// PointsForRank maps an official final rank to founder points.
// Absent, non-positive and out-of-table ranks score 0.
func PointsForRank(rank *int) int {
	if rank == nil {
		return 0
	}
	r := *rank
	switch {
	case r <= 0:
		return 0
	case r == 1:
		return 30
	case r == 2:
		return 25
	case r == 3:
		return 20
	case r == 4:
		return 18
	case r == 5:
		return 16
	case r == 6:
		return 14
	case r <= 10:
		return 12
	case r <= 12:
		return 10
	case r <= 24:
		return -5
	case r == 25:
		return -10
	case r == 26:
		return -15
	default:
		return 0
	}
}

// PointsForPosition maps a 1-based category position to pick points
func PointsForPosition(pos int) int {
	switch pos {
	case 1:
		return FirstPlacePoints
	case 2:
		return SecondPlacePoints
	case 3:
		return ThirdPlacePoints
	default:
		return 0
	}
}
