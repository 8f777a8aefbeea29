package domain

// memberPrices and nonMemberPrices hold the practice's standard session fees.
// Types absent from both tables (Group, Phone Call, RMR Live, Coaching) have
// no standard fee and are priced by hand on the form.
var (
	memberPrices = map[SessionType]float64{
		TypeInPerson:      75,
		TypeOnline:        50,
		TypeTraining:      50,
		TypeOnlineCatchup: 30,
	}
	nonMemberPrices = map[SessionType]float64{
		TypeInPerson:      95,
		TypeOnline:        60,
		TypeTraining:      60,
		TypeOnlineCatchup: 30,
	}
)

// SuggestedPrice returns the standard fee for a session of the given type,
// depending on whether the client is a member. The second return value is
// false when the type has no standard fee; that is not an error, the caller
// leaves the amount blank for manual entry.
func SuggestedPrice(t SessionType, isMember bool) (float64, bool) {
	table := nonMemberPrices
	if isMember {
		table = memberPrices
	}
	price, ok := table[t]
	return price, ok
}
