package nightconfig

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecidePrecedence(t *testing.T) {
	instance := reflect.ValueOf(&trackingObject{})

	t.Run("SkipBeatsDefault", func(t *testing.T) {
		// A true skip condition must win even when the default rule
		// would also fire for the same raw value.
		meta := &FieldMetadata{
			FieldName:      "Name",
			SkipConditions: []SkipCondition{{Kind: ConditionMissing}},
			DefaultRule: DefaultFunc{
				Compute: func() (any, error) {
					t.Fatal("default rule must not be consulted for a skipped field")
					return nil, nil
				},
			},
		}

		decision, err := Decide(meta, Absent(), instance)
		require.NoError(t, err)
		assert.Equal(t, DecideSkip, decision.Kind)
	})

	t.Run("DefaultWhenNotSkipped", func(t *testing.T) {
		meta := &FieldMetadata{
			FieldName:      "Port",
			SkipConditions: []SkipCondition{{Kind: ConditionNull}},
			DefaultRule: DefaultFunc{
				Compute: func() (any, error) { return 8080, nil },
			},
		}

		decision, err := Decide(meta, Absent(), instance)
		require.NoError(t, err)
		assert.Equal(t, DecideUseDefault, decision.Kind)
		assert.Equal(t, 8080, decision.DefaultValue)
	})

	t.Run("ProceedWhenNothingApplies", func(t *testing.T) {
		meta := &FieldMetadata{
			FieldName:      "Name",
			SkipConditions: []SkipCondition{{Kind: ConditionMissing}},
		}

		decision, err := Decide(meta, Present("x"), instance)
		require.NoError(t, err)
		assert.Equal(t, DecideProceed, decision.Kind)
	})

	t.Run("NoAnnotationsProceeds", func(t *testing.T) {
		decision, err := Decide(&FieldMetadata{FieldName: "Name"}, Absent(), instance)
		require.NoError(t, err)
		assert.Equal(t, DecideProceed, decision.Kind)
	})

	t.Run("InactiveDefaultProceeds", func(t *testing.T) {
		meta := &FieldMetadata{
			FieldName: "Port",
			DefaultRule: DefaultFunc{
				Compute: func() (any, error) { return 8080, nil },
			},
		}

		decision, err := Decide(meta, Present(9090), instance)
		require.NoError(t, err)
		assert.Equal(t, DecideProceed, decision.Kind)
	})

	t.Run("ResolutionErrorAborts", func(t *testing.T) {
		meta := &FieldMetadata{
			FieldName:      "Name",
			SkipConditions: []SkipCondition{{Kind: ConditionCustom, CustomCheck: "Gone"}},
		}

		_, err := Decide(meta, Present("x"), instance)
		assert.ErrorIs(t, err, ErrPredicateNotFound)
	})

	t.Run("DefaultComputeErrorPropagates", func(t *testing.T) {
		boom := errors.New("no default available")
		meta := &FieldMetadata{
			FieldName: "Port",
			DefaultRule: DefaultFunc{
				Compute: func() (any, error) { return nil, boom },
			},
		}

		_, err := Decide(meta, Absent(), instance)
		assert.ErrorIs(t, err, boom)
	})
}

type annotatedConfig struct {
	Name     string `config:"name" skipif:"missing,null"`
	Servers  []string
	Port     int    `config:"port" default:"8080"`
	internal string //nolint:unused // exercises the unexported-field filter
	Skipped  string `config:"-"`
	Inner    nestedSection
}

type nestedSection struct {
	Depth int `config:"depth"`
}

func TestMetadataDerivation(t *testing.T) {
	sm, err := metadataForType(reflect.TypeOf(annotatedConfig{}))
	require.NoError(t, err)

	require.Len(t, sm.Fields, 4, "unexported and ignored fields are dropped")

	byName := map[string]*FieldMetadata{}
	for _, f := range sm.Fields {
		byName[f.FieldName] = f
	}

	name := byName["Name"]
	require.NotNil(t, name)
	assert.Equal(t, []string{"name"}, name.Path)
	require.Len(t, name.SkipConditions, 2)
	assert.Nil(t, name.DefaultRule)

	servers := byName["Servers"]
	require.NotNil(t, servers)
	assert.Equal(t, []string{"servers"}, servers.Path, "untagged field uses lowercased name")
	assert.Empty(t, servers.SkipConditions)

	port := byName["Port"]
	require.NotNil(t, port)
	require.NotNil(t, port.DefaultRule)

	inner := byName["Inner"]
	require.NotNil(t, inner)
	assert.True(t, inner.Recurse, "plain struct fields recurse")

	assert.NotContains(t, byName, "Skipped")
	assert.NotContains(t, byName, "internal")
}

func TestMetadataFor(t *testing.T) {
	fields, err := MetadataFor(reflect.TypeOf(annotatedConfig{}))
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "Name", fields[0].FieldName)
}

func TestMetadataCacheReturnsSameDerivation(t *testing.T) {
	t1, err := metadataForType(reflect.TypeOf(annotatedConfig{}))
	require.NoError(t, err)
	t2, err := metadataForType(reflect.TypeOf(annotatedConfig{}))
	require.NoError(t, err)

	if t1 != t2 {
		t.Error("expected cached *structMetadata to be reused")
	}
}

func TestMetadataDerivationErrors(t *testing.T) {
	type badSkip struct {
		Name string `skipif:"whenever"`
	}
	_, err := metadataForType(reflect.TypeOf(badSkip{}))
	assert.ErrorIs(t, err, ErrUnknownSkipCondition)
}

func TestDecisionKindString(t *testing.T) {
	assert.Equal(t, "Proceed", DecideProceed.String())
	assert.Equal(t, "Skip", DecideSkip.String())
	assert.Equal(t, "UseDefault", DecideUseDefault.String())
}
