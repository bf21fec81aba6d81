package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	Code      string       `json:"code"`
	Phase     string       `json:"phase"`
	Players   []RoomPlayer `json:"players"`
	Turn      *int         `json:"turn"`
	Winner    *string      `json:"winner"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RoomPlayer response type
type RoomPlayer struct {
	Seat        int    `json:"seat"`
	DisplayName string `json:"display_name"`
	Ready       bool   `json:"ready"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Phase: %s\n", r.Phase)
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		readyStr := ""
		if p.Ready {
			readyStr = " [ready]"
		}
		fmt.Printf("  - seat %d: %s%s\n", p.Seat, p.DisplayName, readyStr)
	}
	if r.Turn != nil {
		fmt.Printf("Turn: seat %d\n", *r.Turn)
	}
	if r.Winner != nil {
		fmt.Printf("Winner: %s\n", *r.Winner)
	}
	fmt.Printf("Created: %s\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated: %s\n", r.UpdatedAt.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
