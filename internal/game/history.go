package game

type History struct {
	exchanges []string
	maxSize   int
}

func NewHistory(maxSize int) *History {
	if maxSize < 1 {
		maxSize = 1
	}
	return &History{
		exchanges: make([]string, 0, maxSize),
		maxSize:   maxSize,
	}
}

func (h *History) AddPlayerAction(input string) {
	h.add("Player: " + input)
}

func (h *History) AddNarratorResponse(response string) {
	h.add("Narrator: " + response)
}

func (h *History) AddError(err error) {
	h.add("Error: " + err.Error())
}

func (h *History) add(entry string) {
	h.exchanges = append(h.exchanges, entry)

	if len(h.exchanges) > h.maxSize {
		h.exchanges = h.exchanges[len(h.exchanges)-h.maxSize:]
	}
}

func (h *History) GetEntries() []string {
	result := make([]string, len(h.exchanges))
	copy(result, h.exchanges)
	return result
}

// Restore replaces the history with entries, keeping only the newest maxSize.
func (h *History) Restore(entries []string) {
	h.exchanges = h.exchanges[:0]
	for _, entry := range entries {
		h.add(entry)
	}
}

func (h *History) Len() int {
	return len(h.exchanges)
}
