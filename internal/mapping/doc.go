// Package mapping defines clients, their mapping rules, dot-notation paths
// and the YAML rule file format.
//
// A rule file lists the ordered rules of one client:
//
//	version: "1"
//	client: acme
//	rules:
//	  - id: first-name
//	    source: customer.firstName
//	    destination: user.first_name
//	    transform: capitalize
//	    required: true
//	  - id: gender
//	    source: [customer, gender]     # segments may be given as a list
//	    destination: user.gender
//	    transform: mapGender
//	    default: unknown
//	  - id: label
//	    source: customer.lastName
//	    destination: user.label
//	    transform: expression
//	    logic: toUpper(value) + ' - OK'
//
// # Path Syntax
//
// A path is written as dot-separated segments ("user.profile.name") or as a
// list of segments. Empty segments from leading, trailing or repeated dots are
// dropped. A segment made only of digits indexes into an existing list when
// read; on write it becomes a map key.
//
// # Order
//
// Rules run in the order they are declared. A later rule writing the same
// destination overwrites an earlier one.
package mapping
