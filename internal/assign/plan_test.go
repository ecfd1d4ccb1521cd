package assign_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/internal/assign"
	"fixturegen/internal/diagnostic"
	"fixturegen/internal/resolve"
	"fixturegen/node"
	"fixturegen/rule"
	"fixturegen/selector"
)

type Pet struct {
	Name  string
	Owner string
}

type Person struct {
	Name string
	Nick string
	Age  int
	Pets []Pet
}

type Chain struct {
	First  string
	Second string
	Third  string
}

func plan(t *testing.T, set *rule.Set, opts ...assign.Option) (*assign.Plan, *resolve.Maps, error) {
	t.Helper()

	maps, err := resolve.New(set)
	require.NoError(t, err)

	tree, err := node.FromType(set.Root())
	require.NoError(t, err)

	p, err := assign.Build(tree, maps, opts...)

	return p, maps, err
}

func paths(p *assign.Plan) []string {
	var out []string
	for _, s := range p.Steps {
		out = append(out, s.Destination.Path()+" <- "+s.Origin.Path())
	}

	return out
}

func TestStepsRunAfterTheirOrigins(t *testing.T) {
	p, maps, err := plan(t, rule.Of[Chain]().Assign(
		rule.Assign(selector.RootField("Second"), selector.RootField("First")),
		rule.Assign(selector.RootField("Third"), selector.RootField("Second")),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"assign_test.Chain.Second <- assign_test.Chain.Third",
		"assign_test.Chain.First <- assign_test.Chain.Second",
	}, paths(p))

	assert.Len(t, maps.View(rule.AssignOrigin).Unused(), 2, "planning uses nothing")
	assert.Len(t, maps.View(rule.AssignDestination).Unused(), 2)
	assert.Empty(t, maps.View(rule.Ignore).Unused())

	for _, s := range p.Steps {
		maps.MarkAssignmentUsed(s.Assignment)
	}

	assert.Empty(t, maps.View(rule.AssignOrigin).Unused())
	assert.Empty(t, maps.View(rule.AssignDestination).Unused())
}

func TestCycleIsUnresolved(t *testing.T) {
	_, _, err := plan(t, rule.Of[Chain]().Assign(
		rule.Assign(selector.RootField("Second"), selector.RootField("First")),
		rule.Assign(selector.RootField("First"), selector.RootField("Second")),
		rule.Assign(selector.RootField("First"), selector.RootField("Third")),
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.ErrUnresolvedAssignments))

	var unresolved *diagnostic.UnresolvedAssignmentsError
	require.ErrorAs(t, err, &unresolved)
	assert.Len(t, unresolved.Pending, 3, "the step waiting on the cycle is pending too")
}

func TestNearestOrigin(t *testing.T) {
	p, _, err := plan(t, rule.Of[Person]().Assign(
		rule.Assign(selector.FieldOf[Pet]("Name"), selector.FieldOf[Pet]("Owner")),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"assign_test.Person.Pets[].Owner <- assign_test.Person.Pets[].Name"}, paths(p))
	assert.Len(t, p.For(p.Steps[0].Destination), 1)
}

func TestAmbiguousOrigin(t *testing.T) {
	ambiguous := func() *rule.Assignment {
		return rule.Assign(selector.TypeOf[string](), selector.RootField("Age"))
	}

	_, _, err := plan(t, rule.Of[Person]().Assign(ambiguous()))

	var amb *diagnostic.AmbiguousOriginError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"assign_test.Person.Name", "assign_test.Person.Nick"}, amb.Matches)
	assert.Equal(t, "assign_test.Person.Age", amb.Destination)
	assert.Contains(t, amb.Site, "plan_test.go:")

	p, _, err := plan(t, rule.Of[Person]().Assign(ambiguous().AllowMultipleOrigins()))
	require.NoError(t, err)
	assert.Equal(t, []string{"assign_test.Person.Age <- assign_test.Person.Name"}, paths(p))

	p, _, err = plan(t, rule.Of[Person]().Assign(ambiguous()), assign.TolerateAmbiguity())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())
}

func TestIgnoredOrigin(t *testing.T) {
	_, _, err := plan(t, rule.Of[Person]().
		Ignore(selector.RootField("Name")).
		Assign(rule.Assign(selector.RootField("Name"), selector.RootField("Nick"))))

	var unresolved *diagnostic.UnresolvedAssignmentsError
	require.ErrorAs(t, err, &unresolved)
	require.Len(t, unresolved.Pending, 1)
	assert.Contains(t, unresolved.Pending[0], "origin not populated")
}

func TestIgnoredDestinationIsSkipped(t *testing.T) {
	p, maps, err := plan(t, rule.Of[Person]().
		Ignore(selector.RootField("Nick")).
		Assign(rule.Assign(selector.RootField("Name"), selector.RootField("Nick"))))
	require.NoError(t, err)
	assert.Zero(t, p.Len())
	assert.Len(t, maps.View(rule.Ignore).Unused(), 1, "the ignore rule is left for the generator to use")
}

func TestSelfAssignmentNeverSettles(t *testing.T) {
	_, _, err := plan(t, rule.Of[Person]().
		Assign(rule.Assign(selector.TypeOf[[]Pet](), selector.FieldOf[Pet]("Name"))))

	var unresolved *diagnostic.UnresolvedAssignmentsError
	require.ErrorAs(t, err, &unresolved)
	assert.Len(t, unresolved.Pending, 1)
}

func TestNoAssignments(t *testing.T) {
	p, _, err := plan(t, rule.For(reflect.TypeFor[Person]()))
	require.NoError(t, err)
	assert.Zero(t, p.Len())
}
