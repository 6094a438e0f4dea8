package decl

import (
	"slices"
	"strings"
)

// supertypeGraph maps each class in a set to the classes of the same set
// it extends or implements.
type supertypeGraph map[string][]string

func buildSupertypeGraph(set *Set) supertypeGraph {
	graph := make(supertypeGraph)
	declared := make(map[string]bool)
	for i := range set.Classes {
		declared[set.Classes[i].QualifiedName()] = true
	}
	for i := range set.Classes {
		c := &set.Classes[i]
		from := c.QualifiedName()
		graph[from] = nil
		supers := c.Implements
		if c.Extends != "" {
			supers = append([]string{c.Extends}, supers...)
		}
		for _, s := range supers {
			if to := supertypeKey(c.Package, s); declared[to] {
				graph[from] = append(graph[from], to)
			}
		}
	}
	return graph
}

// supertypeKey reduces a supertype name such as "List<T>" or
// "bank@Account" to the qualified name of its declaration.
func supertypeKey(pkg, name string) string {
	if i := strings.IndexAny(name, "<["); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if strings.Contains(name, "@") {
		return name
	}
	if pkg == "" {
		return "default@" + name
	}
	return pkg + "@" + name
}

// checkInheritanceCycles reports one E208 error per cycle among the
// set's own classes. Cycles through registry classes are caught by Declare.
func checkInheritanceCycles(set *Set) []ValidationError {
	graph := buildSupertypeGraph(set)
	pos := make(map[string]int)
	for i := range set.Classes {
		pos[set.Classes[i].QualifiedName()] = i
	}

	var errs []ValidationError
	for _, scc := range tarjanSCC(graph) {
		if len(scc) == 1 && !hasSelfLoop(scc[0], graph) {
			continue
		}
		slices.Sort(scc)
		path := reconstructCyclePath(scc, graph)
		first := &set.Classes[pos[scc[0]]]
		errs = append(errs, newError(ErrInheritanceCycle, scc[0]+".extends", first.Pos,
			"inheritance cycle: %s", strings.Join(path, " -> ")))
	}
	return errs
}

func hasSelfLoop(node string, graph supertypeGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so the result is deterministic.
func tarjanSCC(graph supertypeGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// reconstructCyclePath walks edges inside scc from its first member back
// to itself.
func reconstructCyclePath(scc []string, graph supertypeGraph) []string {
	if len(scc) == 0 {
		return nil
	}
	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)
	for {
		visited[current] = true
		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
