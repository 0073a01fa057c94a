package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/pkg/types"
)

func entitiesOfType(ents []Entity, t types.EntityType) []string {
	var out []string
	for _, e := range ents {
		if e.Type == t {
			out = append(out, e.Text)
		}
	}
	return out
}

func TestRuleSetURLs(t *testing.T) {
	r := NewRuleSet()

	ents, err := r.Detect(context.Background(), "Visit https://example.com/docs. Also see www.example.org, please.")
	require.NoError(t, err)

	urls := entitiesOfType(ents, types.EntityURL)
	assert.Equal(t, []string{"https://example.com/docs", "www.example.org"}, urls)
}

func TestRuleSetDates(t *testing.T) {
	r := NewRuleSet()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"month first", "The launch is on May 5, 2021 at noon.", []string{"May 5, 2021"}},
		{"ordinal day", "Due March 3rd at the latest.", []string{"March 3rd"}},
		{"day first", "Signed on 12 May 2020 in person.", []string{"12 May 2020"}},
		{"numeric", "Expires 12/31/2024 at midnight.", []string{"12/31/2024"}},
		{"iso", "Logged 2024-07-15 by the system.", []string{"2024-07-15"}},
		{"month without day is not a date", "May I help you?", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents, err := r.Detect(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entitiesOfType(ents, types.EntityDate))
		})
	}
}

func TestRuleSetOrganizations(t *testing.T) {
	r := NewRuleSet()

	ents, err := r.Detect(context.Background(), "She joined Acme Corp after leaving Stanford University.")
	require.NoError(t, err)

	orgs := entitiesOfType(ents, types.EntityOrganization)
	assert.Equal(t, []string{"Acme Corp", "Stanford University"}, orgs)
}

func TestRuleSetRepeatedMentions(t *testing.T) {
	r := NewRuleSet()

	ents, err := r.Detect(context.Background(), "Acme Corp bought Acme Corp stock.")
	require.NoError(t, err)

	// One candidate per occurrence, so the masker can assign each mention
	// its own position.
	assert.Equal(t, []string{"Acme Corp", "Acme Corp"}, entitiesOfType(ents, types.EntityOrganization))
}

func TestMultiToleratesPartialFailure(t *testing.T) {
	boom := Func(func(context.Context, string) ([]Entity, error) {
		return nil, errors.New("model unavailable")
	})
	ok := Func(func(context.Context, string) ([]Entity, error) {
		return []Entity{{Text: "Acme Corp", Type: types.EntityOrganization}}, nil
	})

	m := NewMulti(zap.NewNop(), boom, ok)
	ents, err := m.Detect(context.Background(), "whatever")
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "Acme Corp", ents[0].Text)
}

func TestMultiAllFailed(t *testing.T) {
	boom := Func(func(context.Context, string) ([]Entity, error) {
		return nil, errors.New("model unavailable")
	})

	m := NewMulti(zap.NewNop(), boom, boom)
	_, err := m.Detect(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrAllDetectorsFailed)
}

func TestProseFindsPeopleAndPlaces(t *testing.T) {
	p := NewProse(zap.NewNop())

	ents, err := p.Detect(context.Background(), "Barack Obama visited Paris last autumn.")
	require.NoError(t, err)

	people := entitiesOfType(ents, types.EntityPerson)
	places := entitiesOfType(ents, types.EntityPlace)

	require.NotEmpty(t, people)
	assert.Contains(t, people[0], "Obama")
	require.NotEmpty(t, places)
	assert.Contains(t, places, "Paris")
}

func TestProseCancelledContext(t *testing.T) {
	p := NewProse(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Detect(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}
