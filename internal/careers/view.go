package careers

// ListingState is what the open-positions section should show.
type ListingState string

const (
	ListingLoading ListingState = "loading"
	ListingEmpty   ListingState = "empty"
	ListingReady   ListingState = "ready"
)

const EmptyListingMessage = "No open positions right now."

// Card is one rendered position.
type Card struct {
	Title        string   `json:"title"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Experience   string   `json:"experience"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements,omitempty"`
}

type ListingView struct {
	State   ListingState `json:"state"`
	Message string       `json:"message,omitempty"`
	Cards   []Card       `json:"cards"`
}

// BuildView renders positions into cards. Until the first successful fetch
// the view stays in the loading state regardless of positions.
func BuildView(positions []JobPosition, loaded bool) ListingView {
	if !loaded {
		return ListingView{State: ListingLoading, Cards: []Card{}}
	}
	if len(positions) == 0 {
		return ListingView{State: ListingEmpty, Message: EmptyListingMessage, Cards: []Card{}}
	}

	cards := make([]Card, 0, len(positions))
	for _, p := range positions {
		card := Card{
			Title:       p.Title,
			Department:  p.Department,
			Location:    p.Location,
			Type:        p.Type,
			Experience:  p.Experience,
			Description: p.Description,
		}
		if p.Requirements != nil {
			card.Requirements = make([]string, len(p.Requirements))
			copy(card.Requirements, p.Requirements)
		}
		cards = append(cards, card)
	}
	return ListingView{State: ListingReady, Cards: cards}
}
