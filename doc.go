package shape

// Package shape provides:
//
// - Composable schema trees (primitives, containers, unions) built via dsl/
// - A compile step that turns a schema into an immutable, reusable Validator
// - Validation and transformation with structured, path-qualified errors
// - A stable error model via *Error (code, message, root-relative path)
// - JSON/YAML boundary helpers with number fidelity (goccy/go-json, yaml.v3)
//
// Design policy:
// - Keep only public contracts in the root package (errors, paths, results,
//   the Validator facade, input decoding).
// - Place the schema DSL and the executor under dsl/, prebuilt transform
//   schemas under codec/, metadata under registry/, HTTP glue under
//   middleware/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := dsl.Object().
//		Field("name", dsl.String().MinLength(3)).
//		Field("age", dsl.Number().Min(18)).
//		MustCompile()
//
//	v, err := shape.ParseJSON(user, data)
//	res := user.SafeParse(map[string]any{"name": "Jo", "age": 15})
