package nightconfig

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfigTag(t *testing.T) {
	type tagged struct {
		Plain    string
		Named    string `config:"custom_name"`
		Nested   string `config:"outer.inner"`
		Needed   string `config:"token,required"`
		Excluded string `config:"-"`
		Bad      string `config:"key,frobnicate"`
		Empty    string `config:",required"`
	}
	tt := reflect.TypeOf(tagged{})

	t.Run("DefaultsToLowercasedFieldName", func(t *testing.T) {
		f, _ := tt.FieldByName("Plain")
		path, required, ignore, err := decodeConfigTag(f)
		require.NoError(t, err)
		assert.Equal(t, []string{"plain"}, path)
		assert.False(t, required)
		assert.False(t, ignore)
	})

	t.Run("ExplicitKey", func(t *testing.T) {
		f, _ := tt.FieldByName("Named")
		path, _, _, err := decodeConfigTag(f)
		require.NoError(t, err)
		assert.Equal(t, []string{"custom_name"}, path)
	})

	t.Run("DottedKeyBecomesPath", func(t *testing.T) {
		f, _ := tt.FieldByName("Nested")
		path, _, _, err := decodeConfigTag(f)
		require.NoError(t, err)
		assert.Equal(t, []string{"outer", "inner"}, path)
	})

	t.Run("RequiredModifier", func(t *testing.T) {
		f, _ := tt.FieldByName("Needed")
		_, required, _, err := decodeConfigTag(f)
		require.NoError(t, err)
		assert.True(t, required)
	})

	t.Run("DashIgnoresField", func(t *testing.T) {
		f, _ := tt.FieldByName("Excluded")
		_, _, ignore, err := decodeConfigTag(f)
		require.NoError(t, err)
		assert.True(t, ignore)
	})

	t.Run("UnknownModifier", func(t *testing.T) {
		f, _ := tt.FieldByName("Bad")
		_, _, _, err := decodeConfigTag(f)
		assert.ErrorIs(t, err, ErrUnknownFieldModifier)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		f, _ := tt.FieldByName("Empty")
		_, _, _, err := decodeConfigTag(f)
		assert.ErrorIs(t, err, ErrEmptyConfigKey)
	})
}

func TestDecodeSkipTag(t *testing.T) {
	t.Run("PredefinedConditions", func(t *testing.T) {
		conds, err := decodeSkipTag("missing,null,empty", "F")
		require.NoError(t, err)
		require.Len(t, conds, 3)
		assert.Equal(t, ConditionMissing, conds[0].Kind)
		assert.Equal(t, ConditionNull, conds[1].Kind)
		assert.Equal(t, ConditionEmpty, conds[2].Kind)
	})

	t.Run("EmptyTag", func(t *testing.T) {
		conds, err := decodeSkipTag("", "F")
		require.NoError(t, err)
		assert.Nil(t, conds)
	})

	t.Run("GroupsMergeInOrder", func(t *testing.T) {
		conds, err := decodeSkipTag("missing;null,empty;missing", "F")
		require.NoError(t, err)
		require.Len(t, conds, 4)
		assert.Equal(t, ConditionMissing, conds[0].Kind)
		assert.Equal(t, ConditionNull, conds[1].Kind)
		assert.Equal(t, ConditionEmpty, conds[2].Kind)
		assert.Equal(t, ConditionMissing, conds[3].Kind)
	})

	t.Run("WhitespaceTolerated", func(t *testing.T) {
		conds, err := decodeSkipTag(" missing , null ", "F")
		require.NoError(t, err)
		assert.Len(t, conds, 2)
	})

	t.Run("UnknownName", func(t *testing.T) {
		_, err := decodeSkipTag("missing,sometimes", "F")
		assert.ErrorIs(t, err, ErrUnknownSkipCondition)
	})

	t.Run("CustomOnCurrentType", func(t *testing.T) {
		conds, err := decodeSkipTag("custom:'SkipName'", "F")
		require.NoError(t, err)
		require.Len(t, conds, 1)
		assert.Equal(t, ConditionCustom, conds[0].Kind)
		assert.Nil(t, conds[0].CustomType)
		assert.Equal(t, "SkipName", conds[0].CustomCheck)
	})

	t.Run("CustomOnRegisteredChecker", func(t *testing.T) {
		require.NoError(t, RegisterChecker(TagChecker{}))

		conds, err := decodeSkipTag("custom:'TagChecker#SkipIt'", "F")
		require.NoError(t, err)
		require.Len(t, conds, 1)
		assert.Equal(t, reflect.TypeOf(TagChecker{}), conds[0].CustomType)
		assert.Equal(t, "SkipIt", conds[0].CustomCheck)
	})

	t.Run("CustomOnUnknownChecker", func(t *testing.T) {
		_, err := decodeSkipTag("custom:'NeverRegistered#SkipIt'", "F")
		assert.ErrorIs(t, err, ErrUnknownCheckerType)
	})

	t.Run("CustomMissingColon", func(t *testing.T) {
		_, err := decodeSkipTag("custom'SkipName'", "F")
		assert.ErrorIs(t, err, ErrInvalidCustomCheckFormat)
	})

	t.Run("CustomEmptyCheck", func(t *testing.T) {
		_, err := decodeSkipTag("custom:''", "F")
		assert.ErrorIs(t, err, ErrEmptyCustomCheck)
	})

	t.Run("CustomEmptyMember", func(t *testing.T) {
		_, err := decodeSkipTag("custom:'TagChecker#'", "F")
		assert.ErrorIs(t, err, ErrInvalidCustomCheckFormat)
	})

	t.Run("MixedWithPredefined", func(t *testing.T) {
		conds, err := decodeSkipTag("missing,custom:'SkipName',empty", "F")
		require.NoError(t, err)
		require.Len(t, conds, 3)
		assert.Equal(t, ConditionCustom, conds[1].Kind)
	})
}

type TagChecker struct{}

func (TagChecker) SkipIt(v any) bool { return false }

func TestDecodeDefaultTag(t *testing.T) {
	type tagged struct {
		None   string
		Number int      `default:"8080"`
		Text   string   `default:"hello"`
		Quoted string   `default:"\"on\""`
		List   []string `default:"[\"a\",\"b\"]"`
		Truthy bool     `default:"true"`
	}
	tt := reflect.TypeOf(tagged{})

	get := func(name string) DefaultRule {
		f, _ := tt.FieldByName(name)
		return decodeDefaultTag(f)
	}

	assert.Nil(t, get("None"))

	for name, want := range map[string]any{
		"Number": 8080.0, // JSON numbers decode as float64 into any
		"Text":   "hello",
		"Quoted": "on",
		"Truthy": true,
	} {
		rule := get(name)
		require.NotNil(t, rule, name)
		got, err := rule.ComputeDefault()
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	list := get("List")
	got, err := list.ComputeDefault()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	t.Run("ActivationOnAbsentAndNull", func(t *testing.T) {
		rule := get("Number")
		assert.True(t, rule.IsActive(Absent()))
		assert.True(t, rule.IsActive(Null()))
		assert.False(t, rule.IsActive(Present(1)))
	})
}
