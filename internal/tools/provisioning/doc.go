// Package provisioning implements the project lifecycle tools.
//
// These tools run against the provisioning API with the gateway's
// service-account credential, never the caller's key:
//
//   - create_knowledge_project: provision and deploy a new graph project
//   - list_knowledge_projects: list graph projects under the account
//   - delete_knowledge_project: delete a project and all its data
//
// Creation runs the full workflow (create with the default knowledge
// schema, deploy to staging, poll the deploy job, fetch project info)
// inside the backend facade; the handler only shapes arguments and
// results. Create and delete are blocked in read-only mode.
package provisioning
