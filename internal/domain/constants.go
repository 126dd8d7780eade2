package domain

// Game economy constants. All monetary values are whole chips (int).
const (
	// CashPerPlayer is the stake every player brings to the table.
	CashPerPlayer = 400
	// CashToEnter is the entry fee deducted before trading starts.
	CashToEnter = 50
	// GoalSuitPoints is the end-of-game value of one goal-suit card.
	GoalSuitPoints = 10

	// DeckSize is the total card count of every valid deck.
	DeckSize = 40

	// PartnerSuitCount is the fixed count of the goal suit's color partner.
	PartnerSuitCount = 12
)

// GoalSuitCounts are the two possible deck counts of the goal suit itself.
var GoalSuitCounts = []int{8, 10}
