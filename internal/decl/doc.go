// Package decl loads class declarations written in CUE into a type
// registry.
//
// A declaration directory holds one CUE package whose top-level
// "packages" struct maps Shadow package names to classes:
//
//	package bank
//
//	packages: bank: Account: {
//		modifiers: ["public"]
//		fields: balance: {type: "long"}
//		methods: deposit: {params: [{type: "long"}], returns: [{type: "long"}]}
//	}
//
// Loading runs in three stages. Compile turns CUE values into a Set,
// Validate reports structural problems (E201-E204, E208), and Declare
// resolves type names against the registry (E205-E207, E209). Errors carry
// CUE positions where they are known.
package decl
