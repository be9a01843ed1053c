// Package deployed lists the user services of a deployed service in a table,
// either the cache (services prepared ahead of demand) or the services
// assigned to users, and wires the panel's delete, error-info and assign
// actions to a Service collaborator.
package deployed
