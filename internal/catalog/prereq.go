package catalog

import (
	"sort"
)

// prerequisiteCycle returns the ids of lessons caught in a prerequisite
// cycle, sorted, or nil when the prerequisites form a DAG. Lessons in a
// cycle can never unlock. Unknown prerequisites are ignored here and
// reported by validate.
func prerequisiteCycle(lessons map[string]Lesson) []string {
	inDegree := make(map[string]int, len(lessons))
	dependents := make(map[string][]string)
	for id, l := range lessons {
		for _, p := range l.Prerequisites {
			if _, ok := lessons[p]; !ok {
				continue
			}
			inDegree[id]++
			dependents[p] = append(dependents[p], id)
		}
	}

	// Kahn's algorithm
	var queue []string
	for id := range lessons {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if visited == len(lessons) {
		return nil
	}

	var cycle []string
	for id := range lessons {
		if inDegree[id] > 0 {
			cycle = append(cycle, id)
		}
	}
	sort.Strings(cycle)
	return cycle
}
