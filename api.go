package jsonmodels

// ---- Convenience wrappers over the default engine ----

// Build validates raw and constructs an instance of mt with the default engine.
func Build(mt *ModelType, raw any) (*Instance, error) { return DefaultEngine().Build(mt, raw) }

// BuildJSON decodes data and builds an instance of mt with the default engine.
func BuildJSON(mt *ModelType, data []byte) (*Instance, error) {
	return DefaultEngine().BuildJSON(mt, data)
}

// SetValues updates in from partial with the default engine.
func SetValues(in *Instance, partial map[string]any) error {
	return DefaultEngine().SetValues(in, partial)
}

// ToPlain serializes in with the default engine.
func ToPlain(in *Instance) (map[string]any, error) { return DefaultEngine().ToPlain(in) }

// ToPlainPreserving serializes in without default-only properties.
func ToPlainPreserving(in *Instance) (map[string]any, error) {
	return DefaultEngine().ToPlainPreserving(in)
}

// ToJSON serializes in as JSON text with the default engine.
func ToJSON(in *Instance, indent int) ([]byte, error) { return DefaultEngine().ToJSON(in, indent) }

// Validate checks raw against mt with the default engine.
func Validate(mt *ModelType, raw any) (Issues, error) { return DefaultEngine().Validate(mt, raw) }

// SafeBuild returns the instance and whether construction succeeded.
func SafeBuild(mt *ModelType, raw any) (*Instance, bool) {
	in, err := Build(mt, raw)
	return in, err == nil
}

// Is reports whether raw is a valid input for mt.
func Is(mt *ModelType, raw any) bool {
	iss, err := Validate(mt, raw)
	return err == nil && len(iss) == 0
}

// New builds an instance of mt from raw with the default engine.
func (mt *ModelType) New(raw any) (*Instance, error) { return Build(mt, raw) }

// Validate checks raw against the expanded schema of mt. Issues is nil when
// raw is valid.
func (mt *ModelType) Validate(raw any) (Issues, error) { return Validate(mt, raw) }
