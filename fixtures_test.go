package jsonmodels_test

import (
	"fmt"

	jm "github.com/novopl/json-models"
)

func newPerson() *jm.ModelType {
	return jm.Model("Person").
		Field("name", jm.String().Default("John")).
		Field("surname", jm.String().Default("Doe")).
		Field("fullName", jm.String().Computed(func(in *jm.Instance) (any, error) {
			name, _ := in.Get("name")
			surname, _ := in.Get("surname")
			return fmt.Sprintf("%v %v", name, surname), nil
		})).
		MustBuild()
}

func newOrder(person *jm.ModelType) *jm.ModelType {
	return jm.Model("Order").
		Field("id", jm.Integer().Default(1)).
		Field("user", jm.Ref(person)).
		MustBuild()
}

func newTree() *jm.ModelType {
	return jm.Model("Tree").
		Field("value", jm.String()).
		Field("children", jm.Array(jm.Self())).
		MustBuild()
}

func newAddress() *jm.ModelType {
	return jm.Model("Address").
		Field("city", jm.String()).
		Field("forward", jm.Self()).
		MustBuild()
}

func newShipment(address *jm.ModelType) *jm.ModelType {
	return jm.Model("Shipment").
		Field("from", jm.Ref(address)).
		Field("to", jm.Ref(address)).
		MustBuild()
}

func newTeam(person *jm.ModelType) *jm.ModelType {
	return jm.Model("Team").
		Field("lead", jm.Ref(person)).
		Field("members", jm.Array(jm.Ref(person))).
		MustBuild()
}
