// Package chart provides the canonical value types shared by every other
// almagest package.
//
// This package contains type definitions only. All other internal packages
// import chart; chart imports nothing internal. This keeps it the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Index is a tagged value: its Kind is fixed at construction and never
//     recovered from numeric ranges
//   - Longitudes are always normalized to [0, 360)
//   - Position records are immutable once built; callers share pointers
//   - All JSON tags use snake_case
//   - Canonical JSON fixes float precision so golden output is stable
package chart
