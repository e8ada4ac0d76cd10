package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTitleService returns canned responses in place of a live model.
type fakeTitleService struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeTitleService) ChatJSON(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestResolveUsesServiceTitles(t *testing.T) {
	svc := &fakeTitleService{
		response: `{"2025-10-03": "Picture Day", "2025-10-22": "Early Release Day"}`,
	}
	r := NewResolver(svc)

	em := Email{Filename: "news.txt", Subject: "October News"}
	dates := []FoundDate{
		{Date: date(2025, time.October, 3), Context: "Picture day 10/3"},
		{Date: date(2025, time.October, 22), Context: "Early release 10/22"},
	}

	events := r.Resolve(context.Background(), em, dates)
	require.Len(t, events, 2)
	assert.Equal(t, "Picture Day", events[0].Title)
	assert.Equal(t, "Early Release Day", events[1].Title)
	assert.Equal(t, "news.txt", events[0].SourceFile)

	// One batched call per email.
	assert.Len(t, svc.prompts, 1)
}

func TestResolveNestedTitlesKey(t *testing.T) {
	svc := &fakeTitleService{
		response: `{"titles": {"2025-10-03": "Picture Day"}}`,
	}
	r := NewResolver(svc)

	events := r.Resolve(context.Background(), Email{Subject: "News"}, []FoundDate{
		{Date: date(2025, time.October, 3), Context: "Picture day 10/3"},
	})
	require.Len(t, events, 1)
	assert.Equal(t, "Picture Day", events[0].Title)
}

func TestResolveFallsBackOnServiceError(t *testing.T) {
	svc := &fakeTitleService{err: errors.New("connection refused")}
	r := NewResolver(svc)

	events := r.Resolve(context.Background(), Email{Subject: "October News"}, []FoundDate{
		{Date: date(2025, time.October, 3), Context: "Picture day is coming on October 3"},
	})
	require.Len(t, events, 1)
	assert.Equal(t, "Picture day is coming on", events[0].Title)
}

func TestResolveFallsBackOnMalformedResponse(t *testing.T) {
	svc := &fakeTitleService{response: "not json at all"}
	r := NewResolver(svc)

	events := r.Resolve(context.Background(), Email{Subject: "News"}, []FoundDate{
		{Date: date(2025, time.October, 3), Context: "Book fair setup this week"},
	})
	require.Len(t, events, 1)
	assert.Equal(t, "Book fair setup this week", events[0].Title)
}

func TestResolveMissingEntriesFallBackPerDate(t *testing.T) {
	svc := &fakeTitleService{response: `{"2025-10-03": "Picture Day"}`}
	r := NewResolver(svc)

	events := r.Resolve(context.Background(), Email{Subject: "News"}, []FoundDate{
		{Date: date(2025, time.October, 3), Context: "Picture day 10/3"},
		{Date: date(2025, time.October, 22), Context: "Band rehearsal after school"},
	})
	require.Len(t, events, 2)
	assert.Equal(t, "Picture Day", events[0].Title)
	assert.Equal(t, "Band rehearsal after school", events[1].Title)
}

func TestResolveNilServiceStillProducesEvents(t *testing.T) {
	r := NewResolver(nil)

	events := r.Resolve(context.Background(), Email{Subject: "News"}, []FoundDate{
		{Date: date(2025, time.October, 3), Context: "Book fair setup this week"},
	})
	require.Len(t, events, 1)
	assert.Equal(t, "Book fair setup this week", events[0].Title)
}

func TestResolveAttachesClockTimes(t *testing.T) {
	r := NewResolver(nil)

	events := r.Resolve(context.Background(), Email{Subject: "News"}, []FoundDate{
		{Date: date(2025, time.October, 3), Time: "14:00", Context: "Concert rehearsal after lunch"},
	})
	require.Len(t, events, 1)
	require.NotNil(t, events[0].StartTime)
	require.NotNil(t, events[0].EndTime)
	assert.Equal(t, 14, events[0].StartTime.Hour())
	assert.Equal(t, 15, events[0].EndTime.Hour())
	assert.False(t, events[0].AllDay())
}

func TestResolveNoDates(t *testing.T) {
	svc := &fakeTitleService{}
	r := NewResolver(svc)

	assert.Empty(t, r.Resolve(context.Background(), Email{}, nil))
	assert.Empty(t, svc.prompts)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("October News", []FoundDate{
		{Date: date(2025, time.October, 3), Time: "14:00", Context: "Picture day 10/3 at 2 pm"},
		{Date: date(2025, time.October, 22), Context: "Early release"},
	})

	assert.Contains(t, prompt, "Email Subject: October News")
	assert.Contains(t, prompt, "2025-10-03")
	assert.Contains(t, prompt, "Time: 14:00")
	assert.Contains(t, prompt, "Time: all-day")
	assert.Contains(t, prompt, `"2025-10-22": "Event title"`)
}

func TestBuildPromptEmptySubject(t *testing.T) {
	prompt := BuildPrompt("", []FoundDate{{Date: date(2025, time.October, 3)}})
	assert.Contains(t, prompt, "Email Subject: Unknown")
}

func TestDecodeTitles(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
		wantErr  bool
	}{
		{
			name:     "flat mapping",
			content:  `{"2025-10-03": "Picture Day"}`,
			expected: map[string]string{"2025-10-03": "Picture Day"},
		},
		{
			name:     "nested under titles",
			content:  `{"titles": {"2025-10-03": "Picture Day"}}`,
			expected: map[string]string{"2025-10-03": "Picture Day"},
		},
		{
			name:     "non-string values skipped",
			content:  `{"2025-10-03": "Picture Day", "2025-10-22": 7}`,
			expected: map[string]string{"2025-10-03": "Picture Day"},
		},
		{
			name:    "not an object",
			content: `["Picture Day"]`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: "here are your titles",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTitles(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		subject  string
		expected string
	}{
		{
			name:     "strips slash date and at-time",
			context:  "Picture day 10/3 at 2 pm",
			subject:  "October News",
			expected: "Picture day",
		},
		{
			name:     "strips month date",
			context:  "Book fair runs October 7",
			subject:  "News",
			expected: "Book fair runs",
		},
		{
			name:     "strips colon time",
			context:  "Doors open 6:30 pm for the concert",
			subject:  "News",
			expected: "Doors open  for the concert",
		},
		{
			name:     "short remainder gets subject prefix",
			context:  "Due 10/3",
			subject:  "Field Trip Forms",
			expected: "Field Trip Forms: Due",
		},
		{
			name:     "empty remainder uses subject",
			context:  "10/3",
			subject:  "Field Trip Forms",
			expected: "Field Trip Forms",
		},
		{
			name:     "no subject and no remainder",
			context:  "10/3",
			subject:  "",
			expected: "Event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FallbackTitle(tt.context, tt.subject))
		})
	}
}
