package roundtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
)

func TestDateParser_NormalizeDate(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)
	clock := roundutil.NewAnchorClock(now)
	parser := NewDateParser()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "iso date", input: "2024-01-15", want: "2024-01-15"},
		{name: "iso date with spaces", input: "  2024-01-15 ", want: "2024-01-15"},
		{name: "slashed year first", input: "2024/02/03", want: "2024-02-03"},
		{name: "us date", input: "03/04/2024", want: "2024-03-04"},
		{name: "us date short", input: "3/4/24", want: "2024-03-04"},
		{name: "month name", input: "April 7, 2024", want: "2024-04-07"},
		{name: "timestamp keeps calendar day", input: "2024-05-01T23:10:00Z", want: "2024-05-01"},
		{name: "today", input: "today", want: "2024-05-15"},
		{name: "yesterday", input: "Yesterday", want: "2024-05-14"},
		{name: "empty", input: "", wantErr: true},
		{name: "gibberish", input: "sometime soon-ish", wantErr: true},
		{name: "future date", input: "2024-06-01", wantErr: true},
		{name: "tomorrow", input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.NormalizeDate(tt.input, clock)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
