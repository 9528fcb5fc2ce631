package deadline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

func fixture() []Deadline {
	d := func(id, client, due string, p Priority, st Status, title string) Deadline {
		return Deadline{ID: id, ClientID: client, DueDate: common.MustParseDate(due), Priority: p, Status: st, Title: title}
	}
	return []Deadline{
		d("1", "c1", "2024-05-10", PriorityLow, StatusTodo, "Zeta report"),
		d("2", "c2", "2024-05-03", PriorityHigh, StatusInProgress, "alpha review"),
		d("3", "c1", "2024-05-10", PriorityHigh, StatusComplete, "Beta filing"),
		d("4", "c3", "2024-06-01", PriorityMedium, StatusTodo, "Échéance fiscale"),
		d("5", "c1", "2024-05-01", Priority("urgent"), StatusTodo, "epsilon memo"),
		d("6", "c2", "2024-05-03", PriorityMedium, StatusTodo, "Alpha review"),
	}
}

func TestApply_NoFilterNoSortIsIdentity(t *testing.T) {
	in := fixture()
	out := Apply(in, FilterSpec{}, SortSpec{})
	assert.Equal(t, in, out)
}

func TestApply_Filters(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterSpec
		want   []string
	}{
		{"client", FilterSpec{ClientID: "c1"}, []string{"1", "3", "5"}},
		{"priority", FilterSpec{Priority: PriorityHigh}, []string{"2", "3"}},
		{"status", FilterSpec{Status: StatusTodo}, []string{"1", "4", "5", "6"}},
		{"combined", FilterSpec{ClientID: "c1", Status: StatusTodo}, []string{"1", "5"}},
		{"no match", FilterSpec{ClientID: "ghost"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(fixture(), tt.filter, SortSpec{})))
		})
	}
}

func TestApply_SortByDueDate(t *testing.T) {
	asc := Apply(fixture(), FilterSpec{}, SortSpec{Field: SortByDueDate, Ascending: true})
	assert.Equal(t, []string{"5", "2", "6", "1", "3", "4"}, ids(asc))

	desc := Apply(fixture(), FilterSpec{}, SortSpec{Field: SortByDueDate, Ascending: false})
	// ties (2,6) and (1,3) keep input order in both directions
	assert.Equal(t, []string{"4", "1", "3", "2", "6", "5"}, ids(desc))
}

func TestApply_SortByPriority_UnknownRanksAsMedium(t *testing.T) {
	asc := Apply(fixture(), FilterSpec{}, SortSpec{Field: SortByPriority, Ascending: true})
	assert.Equal(t, []string{"2", "3", "4", "5", "6", "1"}, ids(asc))

	desc := Apply(fixture(), FilterSpec{}, SortSpec{Field: SortByPriority})
	assert.Equal(t, []string{"1", "4", "5", "6", "2", "3"}, ids(desc))
}

func TestApply_SortByTitle_Collated(t *testing.T) {
	out := Apply(fixture(), FilterSpec{}, SortSpec{Field: SortByTitle, Ascending: true, Locale: language.English})
	titles := make([]string, len(out))
	for i, d := range out {
		titles[i] = d.Title
	}
	// Case and accents are secondary differences, not byte order.
	assert.Equal(t, []string{"alpha review", "Alpha review", "Beta filing", "Échéance fiscale", "epsilon memo", "Zeta report"}, titles)
}

func TestApply_Idempotent(t *testing.T) {
	specs := []SortSpec{
		{Field: SortByDueDate, Ascending: true},
		{Field: SortByPriority},
		{Field: SortByTitle, Ascending: true},
	}
	for _, s := range specs {
		f := FilterSpec{Status: StatusTodo}
		once := Apply(fixture(), f, s)
		twice := Apply(once, f, s)
		assert.Equal(t, ids(once), ids(twice), string(s.Field))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)
	out := Apply(in, FilterSpec{}, SortSpec{Field: SortByDueDate, Ascending: true})
	require.Equal(t, before, ids(in))

	out[0].Title = "changed"
	assert.NotEqual(t, "changed", in[0].Title)
	assert.NotEqual(t, "changed", in[4].Title)
}

func TestApply_EmptyInput(t *testing.T) {
	out := Apply(nil, FilterSpec{Status: StatusTodo}, SortSpec{Field: SortByTitle})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFilterSpec_Validate(t *testing.T) {
	assert.NoError(t, FilterSpec{}.Validate())
	assert.NoError(t, FilterSpec{Priority: PriorityLow, Status: StatusComplete}.Validate())
	assert.True(t, errors.IsCode(FilterSpec{Priority: "urgent"}.Validate(), errors.ErrCodeDeadlineInvalidPriority))
	assert.True(t, errors.IsCode(FilterSpec{Status: "done"}.Validate(), errors.ErrCodeDeadlineInvalidStatus))
	assert.True(t, FilterSpec{}.IsZero())
}

func TestSortSpec_Validate(t *testing.T) {
	assert.NoError(t, SortSpec{}.Validate())
	assert.NoError(t, SortSpec{Field: SortByTitle}.Validate())
	assert.True(t, errors.IsCode(SortSpec{Field: "createdAt"}.Validate(), errors.ErrCodeDeadlineInvalidSort))
}

func TestParseSortField(t *testing.T) {
	for in, want := range map[string]SortField{
		"":         "",
		"dueDate":  SortByDueDate,
		"due_date": SortByDueDate,
		"PRIORITY": SortByPriority,
		"title":    SortByTitle,
	} {
		got, err := ParseSortField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortField("owner")
	assert.Error(t, err)
}

//Personal.AI order the ending
