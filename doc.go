// Package nightconfig deserializes configuration trees into annotated
// Go structs, with declarative per-field control over when a field
// should be skipped and what default should stand in for missing
// data.
//
// A Config tree is a nested key->value mapping produced from JSON or
// YAML (or built directly from a map). Lookups are tri-state: an
// entry can be absent, present with an explicit null, or present with
// a value. The distinction matters, because the skip policy treats
// "missing" and "null" as different conditions.
//
// Fields declare their policy with struct tags:
//
//	type ServerConfig struct {
//	    Name    string   `config:"name" skipif:"missing"`
//	    Servers []string `config:"servers" skipif:"empty"`
//	    Port    int      `config:"port" default:"8080"`
//	    Token   string   `config:"token" skipif:"custom:'SkipToken'"`
//	}
//
//	func (c ServerConfig) SkipToken(v any) bool {
//	    return v == "redacted"
//	}
//
// Skip conditions on one field combine with OR semantics in
// declaration order, short-circuiting at the first that holds. A
// skipped field is left exactly as the caller constructed it, which
// takes priority over any default rule on the same field.
//
// Custom conditions name either a Predicate-typed field or a method
// taking one any parameter and returning bool. By default the member
// is looked up on the struct being deserialized and bound to the
// current instance. The custom:'Type#Member' form instead names a
// checker type registered with RegisterChecker; such predicates are
// shared across all deserializations and must not depend on the
// object being populated.
//
// The usual entry points are Deserialize, DeserializeJSON and
// DeserializeYAML. The policy pieces (RawValue, IsEmptyValue, Decide,
// MetadataFor) are exported for callers that drive their own object
// walk.
package nightconfig
