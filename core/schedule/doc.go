package schedule

// Package schedule assigns flexible household appliances to hourly slots of a
// solar production schedule. Placement is a single-pass greedy heuristic:
// appliances are ordered by priority then flexibility and each one takes the
// earliest highest-scoring feasible window, subject to a shared per-slot
// capacity ceiling. The pass makes no attempt at a global optimum and never
// backtracks; identical inputs always produce identical placements.
