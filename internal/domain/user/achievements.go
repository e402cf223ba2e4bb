package user

// Rank is the title a user earns by generating recipes and meal plans.
type Rank string

const (
	RankBeginner         Rank = "Beginner"
	RankIntermediateCook Rank = "Intermediate Cook"
	RankProUser          Rank = "Pro User"
	RankMasterChef       Rank = "Master Chef"
)

// IsValid reports whether r is a known rank
func (r Rank) IsValid() bool {
	switch r {
	case RankBeginner, RankIntermediateCook, RankProUser, RankMasterChef:
		return true
	}
	return false
}

// RankFor returns the rank for a number of searches.
func RankFor(totalSearches int) Rank {
	switch {
	case totalSearches >= 50:
		return RankMasterChef
	case totalSearches >= 25:
		return RankProUser
	case totalSearches >= 10:
		return RankIntermediateCook
	default:
		return RankBeginner
	}
}

// Medal is awarded once a user reaches Threshold searches.
type Medal struct {
	Threshold int    `json:"threshold"`
	Icon      string `json:"icon"`
	Name      string `json:"name"`
}

var medals = []Medal{
	{Threshold: 1, Icon: "🥇", Name: "First Search Completed"},
	{Threshold: 10, Icon: "🔥", Name: "10+ Searches Achieved"},
	{Threshold: 25, Icon: "🌟", Name: "25+ Searches Pro User"},
	{Threshold: 50, Icon: "🏆", Name: "50+ Master Chef"},
}

// MedalsFor returns the medals earned with totalSearches, lowest first.
func MedalsFor(totalSearches int) []Medal {
	earned := make([]Medal, 0, len(medals))
	for _, m := range medals {
		if totalSearches >= m.Threshold {
			earned = append(earned, m)
		}
	}
	return earned
}

// Stats counts what a user has generated.
type Stats struct {
	Recipes   int64 `json:"recipes"`
	MealPlans int64 `json:"mealPlans"`
}

// TotalSearches is the number of generations of any kind.
func (s Stats) TotalSearches() int {
	return int(s.Recipes + s.MealPlans)
}
