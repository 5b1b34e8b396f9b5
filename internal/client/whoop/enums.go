package whoop

type ScoreState string

const (
	ScoreStateScored       ScoreState = "SCORED"
	ScoreStatePendingScore ScoreState = "PENDING_SCORE"
	ScoreStateUnscorable   ScoreState = "UNSCORABLE"
)

// Kind names a resource collection.
type Kind string

const (
	KindCycle    Kind = "cycle"
	KindSleep    Kind = "sleep"
	KindRecovery Kind = "recovery"
	KindWorkout  Kind = "workout"
	KindUser     Kind = "user"
)

// Kinds lists the paginated collections.
func Kinds() []Kind {
	return []Kind{KindCycle, KindSleep, KindRecovery, KindWorkout}
}

func ParseKind(s string) (Kind, bool) {
	for _, k := range append(Kinds(), KindUser) {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
