package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/culso/Eqonomize/recurrence"
	"github.com/culso/Eqonomize/tree"
)

func TestScheduledTransaction_MonthlyIncomeScenario(t *testing.T) {
	f := newFixture(t)
	template := NewIncome(f.budget, dec("2000"), date("2023-12-15"), f.salary, f.checking, "Salary", "")
	s := NewScheduledTransaction(f.budget, template, recurrence.NewMonthly(date("2024-01-01"), 1))
	assert.Equal(t, date("2024-01-01"), template.Date(), "template follows the rule start")

	got, err := s.Realize(date("2024-01-01"))
	assert.NoError(t, err)
	income, ok := got.(*Income)
	assert.True(t, ok)
	assert.Equal(t, date("2024-01-01"), income.Date())
	assert.True(t, income.Income().Equal(dec("2000")))
	assert.True(t, got != Transaction(template), "realized transaction is a new record")
	assert.Equal(t, date("2024-02-01"), template.Date())
	assert.Equal(t, date("2024-02-01"), s.FirstOccurrence())

	income.SetDescription("Bonus month")
	assert.Equal(t, "Salary", template.Description())
}

func TestScheduledTransaction_RealizeRejectsNonOccurrences(t *testing.T) {
	f := newFixture(t)
	template := NewExpense(f.budget, dec("9"), date("2024-01-01"), f.food, f.checking, "Streaming", "")
	s := NewScheduledTransaction(f.budget, template, recurrence.NewMonthly(date("2024-01-01"), 1))

	_, err := s.Realize(date("2024-01-01"))
	assert.NoError(t, err)

	tests := []struct {
		name string
		date string
	}{
		{"already realized", "2024-01-01"},
		{"off cadence", "2024-02-02"},
		{"before start", "2023-12-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Realize(date(tt.date))
			assert.IsError(t, err, ErrNotOccurrence)
			assert.Zero(t, got)
			assert.Equal(t, date("2024-02-01"), template.Date())
		})
	}

	s.AddException(date("2024-04-01"))
	_, err = s.Realize(date("2024-04-01"))
	assert.IsError(t, err, ErrNotOccurrence)
}

func TestScheduledTransaction_RealizeFutureOccurrence(t *testing.T) {
	f := newFixture(t)
	template := NewExpense(f.budget, dec("9"), date("2024-01-01"), f.food, f.checking, "Streaming", "")
	s := NewScheduledTransaction(f.budget, template, recurrence.NewMonthly(date("2024-01-01"), 1))

	got, err := s.Realize(date("2024-03-01"))
	assert.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), got.Date())
	assert.Equal(t, date("2024-01-01"), template.Date(), "template stays on the current start")

	_, err = s.Realize(date("2024-03-01"))
	assert.IsError(t, err, ErrNotOccurrence)
}

func TestScheduledTransaction_OneTime(t *testing.T) {
	f := newFixture(t)
	template := NewExpense(f.budget, dec("120"), date("2024-03-03"), f.food, f.checking, "Dentist", "")
	s := NewScheduledTransaction(f.budget, template, nil)
	assert.True(t, s.IsOneTimeTransaction())
	assert.Equal(t, date("2024-03-03"), s.FirstOccurrence())

	_, err := s.Realize(date("2024-03-04"))
	assert.IsError(t, err, ErrNotOccurrence)

	got, err := s.Realize(date("2024-03-03"))
	assert.NoError(t, err)
	assert.True(t, got.Equal(template))
	assert.True(t, got != Transaction(template))

	s.AddException(date("2024-03-03"))
	assert.Equal(t, date("2024-03-03"), template.Date(), "one-time schedules ignore exceptions")
}

func TestScheduledTransaction_Empty(t *testing.T) {
	f := newFixture(t)
	s := NewScheduledTransaction(f.budget, nil, recurrence.NewDaily(date("2024-01-01"), 1))

	_, err := s.Realize(date("2024-01-01"))
	assert.IsError(t, err, ErrNoTemplate)
	assert.Equal(t, date("2024-01-01"), s.FirstOccurrence())

	assert.False(t, NewScheduledTransaction(f.budget, nil, nil).FirstOccurrence().IsValid())
}

func TestScheduledTransaction_ExceptionTiming(t *testing.T) {
	f := newFixture(t)
	template := NewExpense(f.budget, dec("9"), date("2024-01-01"), f.food, f.checking, "Gym", "")
	s := NewScheduledTransaction(f.budget, template, recurrence.NewMonthly(date("2024-01-01"), 1))

	s.AddException(date("2024-03-01"))
	assert.Equal(t, date("2024-01-01"), template.Date())

	s.AddException(date("2024-01-01"))
	assert.Equal(t, date("2024-02-01"), template.Date())

	s.AddException(date("2024-02-01"))
	assert.Equal(t, date("2024-04-01"), template.Date(), "start skips the stored exception")
}

func TestScheduledTransaction_SetDateOntoException(t *testing.T) {
	f := newFixture(t)
	template := NewExpense(f.budget, dec("9"), date("2024-01-01"), f.food, f.checking, "Gym", "")
	s := NewScheduledTransaction(f.budget, template, recurrence.NewMonthly(date("2024-01-01"), 1))
	s.AddException(date("2024-02-01"))

	s.SetDate(date("2024-02-01"))
	assert.Equal(t, date("2024-02-01"), s.FirstOccurrence())
	assert.Equal(t, date("2024-02-01"), template.Date())

	_, err := s.Realize(date("2024-02-01"))
	assert.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), template.Date())
	assert.Equal(t, date("2024-03-01"), s.FirstOccurrence())
}

func TestScheduledTransaction_IsOneTimeTransaction(t *testing.T) {
	f := newFixture(t)
	template := NewExpense(f.budget, dec("9"), date("2024-01-01"), f.food, f.checking, "", "")

	bounded := recurrence.NewYearly(date("2024-01-01"), 1)
	bounded.SetEndDate(date("2024-06-01"))
	assert.True(t, NewScheduledTransaction(f.budget, template, bounded).IsOneTimeTransaction())

	assert.False(t, NewScheduledTransaction(f.budget, template.Copy(), recurrence.NewYearly(date("2024-01-01"), 1)).IsOneTimeTransaction())
}

func TestScheduledTransaction_Setters(t *testing.T) {
	f := newFixture(t)
	s := NewScheduledTransaction(f.budget, nil, nil)
	f.budget.AddScheduledTransaction(s)

	template := NewExpense(f.budget, dec("9"), date("2024-05-05"), f.food, f.checking, "", "")
	s.SetTransaction(template)
	assert.Equal(t, date("2024-05-05"), s.FirstOccurrence())

	s.SetRecurrence(recurrence.NewWeekly(date("2024-06-03"), 1))
	assert.Equal(t, date("2024-06-03"), template.Date())

	s.SetDate(date("2024-07-01"))
	assert.Equal(t, date("2024-07-01"), template.Date())
	assert.Equal(t, date("2024-07-01"), s.Recurrence().StartDate())

	c := s.Copy()
	c.SetDate(date("2024-08-01"))
	assert.Equal(t, date("2024-07-01"), template.Date())
	assert.Equal(t, date("2024-07-01"), s.Recurrence().StartDate())
}

func TestScheduledTransaction_RoundTrip(t *testing.T) {
	f := newFixture(t)
	rule := recurrence.NewMonthly(date("2024-01-31"), 1)
	rule.SetEndDate(date("2024-12-31"))
	rule.AddException(date("2024-04-30"))
	s := NewScheduledTransaction(f.budget,
		NewDividend(f.budget, dec("4.20"), date("2024-01-01"), f.salary, f.checking, f.acme, ""), rule)

	n := tree.New("schedule")
	s.Save(n)
	assert.Equal(t, 2, len(n.Children))
	assert.Equal(t, "dividend", n.Children[0].AttrOr("type", ""))
	assert.Equal(t, "monthly", n.Children[1].AttrOr("type", ""))

	got, err := NewDecoder(f.budget).ScheduledTransaction(n)
	assert.NoError(t, err)
	assert.True(t, s.Transaction().Equal(got.Transaction()))
	assert.Equal(t,
		s.Recurrence().Occurrences(date("2024-01-01"), date("2025-01-01")),
		got.Recurrence().Occurrences(date("2024-01-01"), date("2025-01-01")))
}

func scheduleNode(children ...*tree.Node) *tree.Node {
	return tree.New("schedule").Append(children...)
}

func expenseNode(date, category string) *tree.Node {
	n := tree.New("transaction")
	n.Set("type", "expense")
	n.Set("date", date)
	n.Set("cost", "9")
	n.Set("category", category)
	n.Set("from", "1")
	return n
}

func recurrenceNode(typ, start string) *tree.Node {
	n := tree.New("recurrence")
	n.Set("type", typ)
	n.Set("startdate", start)
	return n
}

func TestDecoder_ScheduledTransaction(t *testing.T) {
	f := newFixture(t)

	t.Run("template date is forced to the rule start", func(t *testing.T) {
		s, err := NewDecoder(f.budget).ScheduledTransaction(scheduleNode(
			expenseNode("2023-12-01", "10"),
			recurrenceNode("weekly", "2024-01-01"),
		))
		assert.NoError(t, err)
		assert.Equal(t, date("2024-01-01"), s.Transaction().Date())
	})

	t.Run("unknown children are skipped", func(t *testing.T) {
		odd := tree.New("transaction")
		odd.Set("type", "loan")
		decoder := NewDecoder(f.budget)
		s, err := decoder.ScheduledTransaction(scheduleNode(
			expenseNode("2024-01-01", "10"),
			odd,
			recurrenceNode("hourly", "2024-01-01"),
		))
		assert.NoError(t, err)
		assert.NotZero(t, s.Transaction())
		assert.Zero(t, s.Recurrence())
		assert.True(t, s.IsOneTimeTransaction())
		assert.Equal(t, 2, len(decoder.Dropped()))
	})

	t.Run("failing template clears the slot", func(t *testing.T) {
		_, err := NewDecoder(f.budget).ScheduledTransaction(scheduleNode(
			expenseNode("2024-01-01", "10"),
			expenseNode("2024-01-01", "99"),
			recurrenceNode("monthly", "2024-01-01"),
		))
		var missing *MissingTemplateError
		assert.True(t, errors.As(err, &missing))
		var unresolved *UnresolvedReferenceError
		assert.True(t, errors.As(err, &unresolved))
	})

	t.Run("failing rule leaves a one-time schedule", func(t *testing.T) {
		decoder := NewDecoder(f.budget)
		s, err := decoder.ScheduledTransaction(scheduleNode(
			expenseNode("2024-01-01", "10"),
			recurrenceNode("monthly", "someday"),
		))
		assert.NoError(t, err)
		assert.Zero(t, s.Recurrence())
		assert.Equal(t, 1, len(decoder.Dropped()))
	})

	t.Run("no template", func(t *testing.T) {
		decoder := NewDecoder(f.budget)
		_, err := decoder.ScheduledTransaction(scheduleNode(recurrenceNode("monthly", "2024-01-01")))
		var missing *MissingTemplateError
		assert.True(t, errors.As(err, &missing))
		assert.Equal(t, 0, len(decoder.Dropped()), "children of a rejected schedule are not reported")
	})
}
