// Package errors provides coded, structured errors for ContractFlow.
//
// Every domain failure that crosses a package boundary is an *Error carrying
// a stable code (e.g. "E300"), a category, a short message and optional
// detail. Codes map to templates in a registry so that the same failure
// always reads the same way in logs, error views and CLI output.
//
// # Categories
//
//   - router: route registration and navigation failures
//   - state: store and persisted-state failures
//   - storage: local storage backend failures
//   - auth: login, registration and session failures
//   - data: mock backend lookups and validation
//   - component: view component failures
//   - config: configuration loading and validation
//
// # Usage
//
//	err := errors.New("E401").
//	    WithDetail(fmt.Sprintf("no contract with id %d", id))
//
//	if errors.HasCode(err, "E401") {
//	    // ...
//	}
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E401: Contract not found
//	//
//	//   no contract with id 42
package errors
