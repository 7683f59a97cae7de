package jsonmodels_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jm "github.com/novopl/json-models"
)

func TestBuild_PersonDefaults(t *testing.T) {
	in, err := jm.Build(newPerson(), map[string]any{})
	require.NoError(t, err)

	plain, err := jm.ToPlain(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "John", "surname": "Doe", "fullName": "John Doe"}, plain)
	assert.True(t, in.Presence("name").DefaultOnly())
}

func TestBuild_NilInputIsEmptyObject(t *testing.T) {
	in, err := newPerson().New(nil)
	require.NoError(t, err)
	v, _ := in.Get("fullName")
	assert.Equal(t, "John Doe", v)
}

func TestBuild_OrderWithNestedPerson(t *testing.T) {
	person := newPerson()
	order := newOrder(person)

	in, err := jm.Build(order, map[string]any{
		"id":   1,
		"user": map[string]any{"name": "Jack", "surname": "Crack"},
	})
	require.NoError(t, err)

	v, ok := in.Get("user")
	require.True(t, ok)
	user, ok := v.(*jm.Instance)
	require.True(t, ok, "user should be an instance, got %T", v)
	assert.Same(t, person, user.Model())
	full, _ := user.Get("fullName")
	assert.Equal(t, "Jack Crack", full)
}

func TestBuild_MissingReferenceIsOmitted(t *testing.T) {
	in, err := jm.Build(newOrder(newPerson()), map[string]any{})
	require.NoError(t, err)
	assert.False(t, in.Has("user"))
	id, _ := in.Get("id")
	assert.Equal(t, 1, id)

	plain, err := jm.ToPlain(in)
	require.NoError(t, err)
	assert.NotContains(t, plain, "user")
}

func TestBuild_UnknownKeysFailValidationFirst(t *testing.T) {
	calls := 0
	mt := jm.Model("Counted").
		Field("a", jm.String().DefaultFunc(func() (any, error) {
			calls++
			return nil, errors.New("boom")
		})).
		MustBuild()

	_, err := jm.Build(mt, map[string]any{"bogus": 1, "other": true})
	var ve *jm.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Counted", ve.Model)
	assert.Equal(t, map[string]any{"bogus": 1, "other": true}, ve.Input)
	require.NotEmpty(t, ve.Issues)
	assert.Equal(t, jm.CodeUnknownKey, ve.Issues[0].Code)
	assert.Equal(t, 0, calls, "no building may happen after a validation failure")

	iss, ok := jm.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, ve.Issues, iss)
}

func TestBuild_ValidationReportsTypeErrors(t *testing.T) {
	iss, err := newPerson().Validate(map[string]any{"name": 5})
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/name", iss[0].Path)
	assert.Equal(t, jm.CodeInvalidType, iss[0].Code)

	iss, err = newPerson().Validate(map[string]any{"name": "Ann"})
	require.NoError(t, err)
	assert.Nil(t, iss)
	assert.True(t, jm.Is(newPerson(), map[string]any{}))
}

func TestBuild_ErrorPathInsideArray(t *testing.T) {
	calls := 0
	item := jm.Model("Item").
		Field("dynamic", jm.String().DefaultFunc(func() (any, error) {
			calls++
			if calls == 3 {
				return nil, errors.New("producer failed")
			}
			return fmt.Sprintf("v%d", calls), nil
		})).
		MustBuild()
	cart := jm.Model("Cart").Field("items", jm.Array(jm.Ref(item))).MustBuild()

	_, err := jm.Build(cart, map[string]any{"items": []any{map[string]any{}, map[string]any{}, map[string]any{}}})
	var be *jm.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "$.items[2].dynamic", be.Path)
	assert.EqualError(t, errors.Unwrap(be), "producer failed")
}

func TestBuild_ProducerPanicIsRecovered(t *testing.T) {
	mt := jm.Model("Panicky").
		Field("x", jm.String().DefaultFunc(func() (any, error) { panic("nope") })).
		MustBuild()
	_, err := jm.Build(mt, nil)
	var be *jm.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "$.x", be.Path)
	assert.ErrorIs(t, err, jm.ErrHookPanic)
}

func TestBuild_ProducerRunsPerInstance(t *testing.T) {
	n := 0
	mt := jm.Model("Seq").
		Field("n", jm.Integer().DefaultFunc(func() (any, error) {
			n++
			return n, nil
		})).
		MustBuild()
	a, err := jm.Build(mt, nil)
	require.NoError(t, err)
	b, err := jm.Build(mt, nil)
	require.NoError(t, err)
	av, _ := a.Get("n")
	bv, _ := b.Get("n")
	assert.Equal(t, 1, av)
	assert.Equal(t, 2, bv)

	// supplied values never trigger the producer
	_, err = jm.Build(mt, map[string]any{"n": 10})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBuild_ArrayDefaults(t *testing.T) {
	mt := jm.Model("Lists").
		Field("empty", jm.Array(jm.String())).
		Field("tags", jm.Array(jm.String()).Default([]any{"a"})).
		MustBuild()

	first, err := jm.Build(mt, nil)
	require.NoError(t, err)
	empty, ok := first.Get("empty")
	require.True(t, ok, "arrays are never absent")
	assert.Equal(t, []any{}, empty)
	tags, _ := first.Get("tags")
	assert.Equal(t, []any{"a"}, tags)

	// literal defaults are not shared between instances
	tags.([]any)[0] = "mutated"
	second, err := jm.Build(mt, nil)
	require.NoError(t, err)
	tags2, _ := second.Get("tags")
	assert.Equal(t, []any{"a"}, tags2)
}

func TestBuild_ReadOnlyNeverSetFromInput(t *testing.T) {
	mt := jm.Model("Locked").
		Field("id", jm.String().ReadOnly().Default("fixed")).
		Field("name", jm.String()).
		MustBuild()

	in, err := jm.Build(mt, map[string]any{"id": "hacked", "name": "n"})
	require.NoError(t, err)
	assert.False(t, in.Has("id"))

	require.NoError(t, jm.SetValues(in, map[string]any{"id": "again"}))
	assert.False(t, in.Has("id"))

	// programmatic assignment of a stored read-only property is allowed
	require.NoError(t, in.Set("id", "set"))
	v, _ := in.Get("id")
	assert.Equal(t, "set", v)
}

func TestBuild_SelfReferenceTree(t *testing.T) {
	tree := newTree()
	in, err := jm.Build(tree, map[string]any{
		"value": "a",
		"children": []any{
			map[string]any{"value": "b", "children": []any{map[string]any{"value": "c"}}},
		},
	})
	require.NoError(t, err)

	children, _ := in.Get("children")
	b := children.([]any)[0].(*jm.Instance)
	assert.Same(t, tree, b.Model())
	grand, _ := b.Get("children")
	c := grand.([]any)[0].(*jm.Instance)
	leaf, ok := c.Get("children")
	require.True(t, ok)
	assert.Equal(t, []any{}, leaf)
}

func TestBuild_SelfReferenceInvalidDeepNode(t *testing.T) {
	_, err := jm.Build(newTree(), map[string]any{
		"children": []any{map[string]any{"children": []any{map[string]any{"value": 3}}}},
	})
	var ve *jm.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "/children/0/children/0/value", ve.Issues[0].Path)
}

func TestBuild_MutualRecursion(t *testing.T) {
	var dept *jm.ModelType
	emp := jm.Model("Employee").
		Field("name", jm.String()).
		Field("dept", jm.LazyRef(func() *jm.ModelType { return dept })).
		MustBuild()
	dept = jm.Model("Department").
		Field("title", jm.String()).
		Field("staff", jm.Array(jm.Ref(emp))).
		MustBuild()

	in, err := jm.Build(dept, map[string]any{
		"title": "R&D",
		"staff": []any{map[string]any{"name": "Ann", "dept": map[string]any{"title": "Ops"}}},
	})
	require.NoError(t, err)
	staff, _ := in.Get("staff")
	ann := staff.([]any)[0].(*jm.Instance)
	d, _ := ann.Get("dept")
	assert.Same(t, dept, d.(*jm.Instance).Model())
}

func TestBuild_DateFormat(t *testing.T) {
	mt := jm.Model("Event").
		Field("on", jm.String().Format("date")).
		Field("at", jm.String().Format("date-time")).
		MustBuild()
	in, err := jm.Build(mt, map[string]any{"on": "2024-03-05", "at": "2024-03-05T10:20:30Z"})
	require.NoError(t, err)

	on, _ := in.Get("on")
	require.IsType(t, time.Time{}, on)
	assert.True(t, on.(time.Time).Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	plain, err := jm.ToPlain(in)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", plain["on"])
	assert.Equal(t, "2024-03-05T10:20:30Z", plain["at"])
}

func TestBuild_InvalidDateFormatFailsValidation(t *testing.T) {
	mt := jm.Model("Event").Field("on", jm.String().Format("date")).MustBuild()
	_, err := jm.Build(mt, map[string]any{"on": "yesterday-ish"})
	var ve *jm.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, jm.CodeInvalidFormat, ve.Issues[0].Code)
}

func TestBuild_InlineObject(t *testing.T) {
	mt := jm.Model("Box").
		Field("size", jm.Object().
			Prop("w", jm.Number()).
			Prop("unit", jm.String().Default("cm"))).
		MustBuild()
	in, err := jm.Build(mt, map[string]any{"size": map[string]any{"w": 2}})
	require.NoError(t, err)
	size, _ := in.Get("size")
	assert.Equal(t, map[string]any{"w": 2, "unit": "cm"}, size)
}

func TestBuild_ExplicitNullIsKept(t *testing.T) {
	e := jm.New(jm.WithoutValidation())
	mt := jm.Model("Nick").Field("nick", jm.String()).MustBuild()
	in, err := e.Build(mt, map[string]any{"nick": nil})
	require.NoError(t, err)
	assert.True(t, in.Has("nick"))
	assert.Equal(t, jm.PresenceSeen|jm.PresenceWasNull, in.Presence("nick"))

	plain, err := e.ToPlain(in)
	require.NoError(t, err)
	assert.Contains(t, plain, "nick")
	assert.Nil(t, plain["nick"])
}

func TestBuild_MaxDepth(t *testing.T) {
	e := jm.New(jm.WithoutValidation(), jm.WithMaxDepth(1))
	_, err := e.Build(newTree(), map[string]any{
		"children": []any{map[string]any{"children": []any{map[string]any{}}}},
	})
	require.ErrorIs(t, err, jm.ErrMaxDepth)
	var be *jm.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "$.children[0].children[0]", be.Path)
}

func TestBuild_NonObjectInputFailsValidation(t *testing.T) {
	_, err := jm.Build(newPerson(), "nope")
	var ve *jm.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "/", ve.Issues[0].Path)
	assert.Equal(t, jm.CodeInvalidType, ve.Issues[0].Code)

	_, err = jm.BuildJSON(newPerson(), []byte(`[{"name": "Ann"}]`))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, jm.CodeInvalidType, ve.Issues[0].Code)
	assert.Equal(t, "/", ve.Issues[0].Path)
}

func TestBuild_NonObjectInputWithoutValidation(t *testing.T) {
	_, err := jm.New(jm.WithoutValidation()).Build(newPerson(), "nope")
	var be *jm.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "$", be.Path)
	assert.ErrorIs(t, err, jm.ErrNotObject)
}

func TestBuild_SameModelReferencedTwice(t *testing.T) {
	address := newAddress()
	shipment := newShipment(address)

	in, err := jm.BuildJSON(shipment, []byte(`{
		"from": {"city": "A", "forward": {"city": "A2"}},
		"to": {"city": "B"}
	}`))
	require.NoError(t, err)
	plain, err := jm.ToPlain(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"from": map[string]any{"city": "A", "forward": map[string]any{"city": "A2"}},
		"to":   map[string]any{"city": "B"},
	}, plain)
	to, _ := in.Get("to")
	assert.Same(t, address, to.(*jm.Instance).Model())

	_, err = jm.Build(shipment, map[string]any{
		"from": map[string]any{"city": "A"},
		"to":   map[string]any{"city": 7, "zip": "x"},
	})
	var ve *jm.ValidationError
	require.ErrorAs(t, err, &ve)
	paths := map[string]string{}
	for _, it := range ve.Issues {
		paths[it.Path] = it.Code
	}
	assert.Equal(t, map[string]string{"/to/city": jm.CodeInvalidType, "/to": jm.CodeUnknownKey}, paths)
}

func TestBuild_ModelAsFieldAndArrayItems(t *testing.T) {
	team := newTeam(newPerson())
	in, err := jm.Build(team, map[string]any{
		"lead":    map[string]any{"name": "Ann"},
		"members": []any{map[string]any{"name": "Bob"}, map[string]any{}},
	})
	require.NoError(t, err)
	plain, err := jm.ToPlain(in)
	require.NoError(t, err)
	assert.Equal(t, "Ann Doe", plain["lead"].(map[string]any)["fullName"])
	members := plain["members"].([]any)
	require.Len(t, members, 2)
	assert.Equal(t, "John Doe", members[1].(map[string]any)["fullName"])

	assert.False(t, jm.Is(team, map[string]any{"members": []any{map[string]any{"name": 1}}}))
	iss, err := jm.Validate(team, map[string]any{"members": []any{map[string]any{"name": 1}}})
	require.NoError(t, err)
	require.Len(t, iss, 1)
	assert.Equal(t, "/members/0/name", iss[0].Path)
}

func TestBuildJSON_KeepsNumbers(t *testing.T) {
	in, err := jm.BuildJSON(newOrder(newPerson()), []byte(`{"id": 7, "user": {"name": "Ann"}}`))
	require.NoError(t, err)
	id, _ := in.Get("id")
	assert.Equal(t, "7", fmt.Sprint(id))

	_, err = jm.BuildJSON(newPerson(), []byte(`{`))
	require.Error(t, err)
}

func TestBuild_AcceptsInstanceForReference(t *testing.T) {
	person := newPerson()
	ann, err := person.New(map[string]any{"name": "Ann"})
	require.NoError(t, err)

	in, err := jm.Build(newOrder(person), map[string]any{"user": ann})
	require.NoError(t, err)
	v, _ := in.Get("user")
	user := v.(*jm.Instance)
	assert.NotSame(t, ann, user, "instances are owned by their parent")
	name, _ := user.Get("name")
	assert.Equal(t, "Ann", name)
}

func TestSetValues_OnlyTouchesGivenKeys(t *testing.T) {
	in, err := newPerson().New(map[string]any{"name": "Jack", "surname": "Crack"})
	require.NoError(t, err)

	require.NoError(t, jm.SetValues(in, map[string]any{"name": "Ann", "fullName": "X", "unknown": 1}))
	name, _ := in.Get("name")
	surname, _ := in.Get("surname")
	full, _ := in.Get("fullName")
	assert.Equal(t, "Ann", name)
	assert.Equal(t, "Crack", surname)
	assert.Equal(t, "Ann Crack", full)
	assert.False(t, in.Has("unknown"))
}

func TestSetValues_NoDefaultsAndAtomic(t *testing.T) {
	mt := jm.Model("Dated").
		Field("name", jm.String()).
		Field("tags", jm.Array(jm.String())).
		Field("on", jm.String().Format("date")).
		MustBuild()
	in, err := jm.New(jm.WithoutValidation()).Build(mt, map[string]any{"name": "a"})
	require.NoError(t, err)
	require.True(t, in.Has("tags"))

	err = jm.SetValues(in, map[string]any{"name": "b", "on": "not a date"})
	var be *jm.BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "$.on", be.Path)
	name, _ := in.Get("name")
	assert.Equal(t, "a", name)
	assert.False(t, in.Has("on"))
}

func TestInstance_SetRejectsComputedAndUnknown(t *testing.T) {
	in, err := newPerson().New(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, in.Set("fullName", "x"), jm.ErrReadOnly)
	assert.ErrorIs(t, in.Set("nope", "x"), jm.ErrUnknownProperty)
}

func TestInstance_CloneIsDeep(t *testing.T) {
	order := newOrder(newPerson())
	in, err := order.New(map[string]any{"user": map[string]any{"name": "Ann"}})
	require.NoError(t, err)

	cp := in.Clone()
	v, _ := cp.Get("user")
	require.NoError(t, v.(*jm.Instance).Set("name", "Bob"))

	orig, _ := in.Get("user")
	name, _ := orig.(*jm.Instance).Get("name")
	assert.Equal(t, "Ann", name)
	assert.Equal(t, map[string]any{"id": 1, "user": map[string]any{"name": "Ann", "surname": "Doe"}}, in.Stored())
}

func TestBuildJSON_RejectsDuplicateKeys(t *testing.T) {
	_, err := jm.BuildJSON(newPerson(), []byte(`{"name": "a", "name": "b"}`))
	var ve *jm.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, jm.CodeDuplicateKey, ve.Issues[0].Code)
	assert.Equal(t, "/", ve.Issues[0].Path)

	// without validation the last value wins
	in, err := jm.New(jm.WithoutValidation()).BuildJSON(newPerson(), []byte(`{"name": "a", "name": "b"}`))
	require.NoError(t, err)
	name, _ := in.Get("name")
	assert.Equal(t, "b", name)
}
