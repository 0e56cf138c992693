// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The central component is TaskService, which layers cache-aside reads over
// the task repository: reads consult the cache and populate it on a miss,
// writes go to the repository first and invalidate the affected cache
// entries only after the write has committed. The cache is treated purely
// as an accelerator - any cache failure degrades to repository access and
// never fails a request.
//
// Key conventions:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the delivery mechanisms
//   - Dependencies are received through constructor injection
//
// 2. Error Handling:
//   - Expected conditions surface as sentinel errors (e.g. ErrTaskNotFound)
//   - Domain validation failures pass through unchanged
//   - Unexpected errors are wrapped in TaskServiceError with operation context
//   - The API layer maps all of these to HTTP status codes
//
// The service layer depends on domain entities, repository interfaces (from
// store), and the cache capability interface (from cache), but never on
// specific infrastructure implementations, maintaining the Dependency
// Inversion Principle of clean architecture.
package service
