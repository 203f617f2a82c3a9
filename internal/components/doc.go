// Package components renders the ContractFlow dashboard screens.
//
// Components are looked up by name in a Registry and built on first use,
// once per page session. Each one reads the session's state store and the
// mock backend and returns a vdom tree; the Layout component wraps page
// content in the sidebar and header.
//
//	reg := components.NewRegistry(components.Deps{Store: store, Data: data})
//	list, err := reg.Load(components.NameContractList)
//	node, err := list.Render(ctx, components.Props{Query: query})
//
// Forms and buttons carry a data-action attribute naming the action the
// browser sends back when they are used.
package components
