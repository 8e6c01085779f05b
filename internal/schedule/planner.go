package schedule

import "sort"

// pool is a live stack of one allocation's units at a location.
type pool struct {
	loc   Location
	units int
}

// BuildPlan computes the day's movement schedule from a read-only snapshot.
// It is a pure function: same snapshot in, same plan out. Allocations are
// planned independently; every allocation starts the day entirely at its
// storage location.
//
// The candidate ordering (destination first, then largest pool first) and the
// largest-demand-first service order are deliberate greedy heuristics carried
// over from the production behaviour, not an optimal transportation solve.
func BuildPlan(base []Period, allocations []Allocation) Plan {
	SortPeriods(base)
	timeline := MovementPeriods(base)
	if len(timeline) == 0 {
		return Plan{}
	}

	perPeriod := make([][]Movement, len(timeline))
	var warnings []ShortfallWarning

	for _, alloc := range allocations {
		storage := StorageLocation(alloc.StorageLocation)
		live := map[string]*pool{storage.key(): {loc: storage, units: alloc.Units}}
		demands := demandsByPeriod(alloc.Demands)

		for i, mp := range timeline {
			post := map[string]*pool{}

			if !mp.Cleanup {
				for _, d := range demands[mp.Number] {
					warning := serveDemand(alloc, d, live, post, &perPeriod[i])
					if warning != nil {
						warnings = append(warnings, *warning)
					}
				}
			}

			// Anything still in a classroom was left there by an earlier
			// period; sweep it back to storage.
			for _, p := range sortedPools(live) {
				if p.loc.Storage {
					continue
				}
				perPeriod[i] = append(perPeriod[i], Movement{
					AllocationID: alloc.ID,
					SKUName:      alloc.SKUName,
					Units:        p.units,
					Origin:       p.loc,
					Destination:  storage,
				})
				addUnits(post, storage, p.units)
				delete(live, p.loc.key())
			}

			// This period's placements become drawable next period.
			for key, p := range post {
				if existing, ok := live[key]; ok {
					existing.units += p.units
				} else {
					live[key] = p
				}
			}
		}
	}

	plan := Plan{Periods: make([]PeriodMovements, len(timeline)), Warnings: warnings}
	for i, mp := range timeline {
		sortMovements(perPeriod[i])
		plan.Periods[i] = PeriodMovements{Period: mp, Movements: perPeriod[i]}
	}

	return plan
}

// serveDemand draws units toward one reservation until it is satisfied or no
// source remains. Draws already made stay committed; an unsourceable
// remainder becomes a warning rather than an error.
func serveDemand(alloc Allocation, d Demand, live, post map[string]*pool, movements *[]Movement) *ShortfallWarning {
	remaining := d.Units

	for remaining > 0 {
		candidates := orderCandidates(d.Destination, live)
		if len(candidates) == 0 {
			return &ShortfallWarning{
				AllocationID:  alloc.ID,
				SKUName:       alloc.SKUName,
				ReservationID: d.ReservationID,
				PeriodNumber:  d.PeriodNumber,
				Destination:   d.Destination,
				UnitsShort:    remaining,
				Distribution:  distribution(live, post),
			}
		}

		source := candidates[0]
		moved := source.units
		if remaining < moved {
			moved = remaining
		}

		if source.loc.key() != d.Destination.key() {
			*movements = append(*movements, Movement{
				AllocationID: alloc.ID,
				SKUName:      alloc.SKUName,
				Units:        moved,
				Origin:       source.loc,
				Destination:  d.Destination,
				Note:         d.Note,
			})
		}

		addUnits(post, d.Destination, moved)
		remaining -= moved

		source.units -= moved
		if source.units == 0 {
			delete(live, source.loc.key())
		}
	}

	return nil
}

// orderCandidates ranks the locations a demand may draw from: the destination
// itself first (those units need no movement), then every other holding
// location by unit count descending. Ties break on name then key so the plan
// is deterministic.
func orderCandidates(destination Location, live map[string]*pool) []*pool {
	candidates := make([]*pool, 0, len(live))

	var rest []*pool
	for _, p := range live {
		if p.units <= 0 {
			continue
		}
		if p.loc.key() == destination.key() {
			candidates = append(candidates, p)
			continue
		}
		rest = append(rest, p)
	}

	sort.Slice(rest, func(i, j int) bool {
		if rest[i].units != rest[j].units {
			return rest[i].units > rest[j].units
		}
		if rest[i].loc.Name != rest[j].loc.Name {
			return rest[i].loc.Name < rest[j].loc.Name
		}
		return rest[i].loc.key() < rest[j].loc.key()
	})

	return append(candidates, rest...)
}

func demandsByPeriod(demands []Demand) map[int][]Demand {
	grouped := make(map[int][]Demand)
	for _, d := range demands {
		grouped[d.PeriodNumber] = append(grouped[d.PeriodNumber], d)
	}
	for number := range grouped {
		group := grouped[number]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Units != group[j].Units {
				return group[i].Units > group[j].Units
			}
			if group[i].Destination.Name != group[j].Destination.Name {
				return group[i].Destination.Name < group[j].Destination.Name
			}
			return group[i].ReservationID < group[j].ReservationID
		})
	}
	return grouped
}

func addUnits(pools map[string]*pool, loc Location, units int) {
	if p, ok := pools[loc.key()]; ok {
		p.units += units
		return
	}
	pools[loc.key()] = &pool{loc: loc, units: units}
}

func sortedPools(pools map[string]*pool) []*pool {
	out := make([]*pool, 0, len(pools))
	for _, p := range pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].loc.Name != out[j].loc.Name {
			return out[i].loc.Name < out[j].loc.Name
		}
		return out[i].loc.key() < out[j].loc.key()
	})
	return out
}

// distribution merges the live and post-move maps into the location->units
// snapshot reported with shortfall warnings.
func distribution(live, post map[string]*pool) map[string]int {
	out := make(map[string]int, len(live)+len(post))
	for _, p := range live {
		out[p.loc.Name] += p.units
	}
	for _, p := range post {
		out[p.loc.Name] += p.units
	}
	return out
}

// sortMovements applies the strict total order (origin name, destination
// name, units) so repeated runs emit byte-identical schedules.
func sortMovements(movements []Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if movements[i].Origin.Name != movements[j].Origin.Name {
			return movements[i].Origin.Name < movements[j].Origin.Name
		}
		if movements[i].Destination.Name != movements[j].Destination.Name {
			return movements[i].Destination.Name < movements[j].Destination.Name
		}
		return movements[i].Units < movements[j].Units
	})
}
