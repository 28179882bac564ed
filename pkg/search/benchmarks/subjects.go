package benchmarks

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

var subjects = map[string]func() (*Program, error){
	"triangle": Triangle,
	"nested":   Nested,
	"thrower":  Thrower,
}

// SubjectNames lists the built-in subjects in alphabetical order.
func SubjectNames() []string {
	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewSubject builds the built-in subject registered under name.
func NewSubject(name string) (*Program, error) {
	build, ok := subjects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownSubject, name, strings.Join(SubjectNames(), ", "))
	}
	return build()
}

func block(id string, t framework.NodeType, line int, condition string) Block {
	return Block{Node: framework.Node{ID: id, Type: t, Lines: []int{line}}, Condition: condition}
}

func edge(source, target, label string) framework.Edge {
	return framework.Edge{Source: source, Target: target, Label: label}
}

// Triangle classifies three side lengths.
func Triangle() (*Program, error) {
	blocks := []Block{
		block("ROOT", framework.EntryNode, 1, ""),
		block("B1", framework.BranchNode, 2, "a > 0"),
		block("B2", framework.BranchNode, 3, "b > 0"),
		block("B3", framework.BranchNode, 4, "c > 0"),
		block("B4", framework.BranchNode, 5, "a + b > c"),
		block("B5", framework.BranchNode, 6, "a == b"),
		block("B6", framework.BranchNode, 7, "b == c"),
		block("B7", framework.BranchNode, 8, "b == c"),
		block("B8", framework.BranchNode, 9, "a == c"),
		block("INVALID", framework.NormalNode, 10, ""),
		block("EQUILATERAL", framework.NormalNode, 11, ""),
		block("ISOSCELES", framework.NormalNode, 12, ""),
		block("SCALENE", framework.NormalNode, 13, ""),
		block("EXIT", framework.ExitNode, 14, ""),
	}
	edges := []framework.Edge{
		edge("ROOT", "B1", ""),
		edge("B1", "B2", "true"), edge("B1", "INVALID", "false"),
		edge("B2", "B3", "true"), edge("B2", "INVALID", "false"),
		edge("B3", "B4", "true"), edge("B3", "INVALID", "false"),
		edge("B4", "B5", "true"), edge("B4", "INVALID", "false"),
		edge("B5", "B6", "true"), edge("B5", "B7", "false"),
		edge("B6", "EQUILATERAL", "true"), edge("B6", "ISOSCELES", "false"),
		edge("B7", "ISOSCELES", "true"), edge("B7", "B8", "false"),
		edge("B8", "ISOSCELES", "true"), edge("B8", "SCALENE", "false"),
		edge("INVALID", "EXIT", ""), edge("EQUILATERAL", "EXIT", ""),
		edge("ISOSCELES", "EXIT", ""), edge("SCALENE", "EXIT", ""),
	}
	return NewProgram("triangle", 3, -20, 100, blocks, edges, func(p *Probe, args []int) {
		a, b, c := args[0], args[1], args[2]
		p.Enter("ROOT")
		defer p.Enter("EXIT")

		if !p.Branch("B1", framework.OpGT, a, 0) ||
			!p.Branch("B2", framework.OpGT, b, 0) ||
			!p.Branch("B3", framework.OpGT, c, 0) ||
			!p.Branch("B4", framework.OpGT, a+b, c) {
			p.Enter("INVALID")
			return
		}
		if p.Branch("B5", framework.OpEQ, a, b) {
			if p.Branch("B6", framework.OpEQ, b, c) {
				p.Enter("EQUILATERAL")
			} else {
				p.Enter("ISOSCELES")
			}
			return
		}
		if p.Branch("B7", framework.OpEQ, b, c) || p.Branch("B8", framework.OpEQ, a, c) {
			p.Enter("ISOSCELES")
			return
		}
		p.Enter("SCALENE")
	})
}

// Nested hides its target behind four nested conditions.
func Nested() (*Program, error) {
	blocks := []Block{
		block("ROOT", framework.EntryNode, 1, ""),
		block("N1", framework.BranchNode, 2, "x > 10"),
		block("N2", framework.BranchNode, 3, "y < x"),
		block("N3", framework.BranchNode, 4, "x == 42"),
		block("N4", framework.BranchNode, 5, "y == 7"),
		block("TARGET", framework.NormalNode, 6, ""),
		block("ELSE1", framework.NormalNode, 7, ""),
		block("ELSE2", framework.NormalNode, 8, ""),
		block("ELSE3", framework.NormalNode, 9, ""),
		block("ELSE4", framework.NormalNode, 10, ""),
		block("EXIT", framework.ExitNode, 11, ""),
	}
	edges := []framework.Edge{
		edge("ROOT", "N1", ""),
		edge("N1", "N2", "true"), edge("N1", "ELSE1", "false"),
		edge("N2", "N3", "true"), edge("N2", "ELSE2", "false"),
		edge("N3", "N4", "true"), edge("N3", "ELSE3", "false"),
		edge("N4", "TARGET", "true"), edge("N4", "ELSE4", "false"),
		edge("TARGET", "EXIT", ""), edge("ELSE1", "EXIT", ""), edge("ELSE2", "EXIT", ""),
		edge("ELSE3", "EXIT", ""), edge("ELSE4", "EXIT", ""),
	}
	return NewProgram("nested", 2, -100, 100, blocks, edges, func(p *Probe, args []int) {
		x, y := args[0], args[1]
		p.Enter("ROOT")
		defer p.Enter("EXIT")

		switch {
		case !p.Branch("N1", framework.OpGT, x, 10):
			p.Enter("ELSE1")
		case !p.Branch("N2", framework.OpLT, y, x):
			p.Enter("ELSE2")
		case !p.Branch("N3", framework.OpEQ, x, 42):
			p.Enter("ELSE3")
		case !p.Branch("N4", framework.OpEQ, y, 7):
			p.Enter("ELSE4")
		default:
			p.Enter("TARGET")
		}
	})
}

// Thrower raises two different exceptions.
func Thrower() (*Program, error) {
	blocks := []Block{
		block("ROOT", framework.EntryNode, 1, ""),
		block("T1", framework.BranchNode, 2, "x == y"),
		block("ZERO", framework.NormalNode, 3, ""),
		block("T2", framework.BranchNode, 4, "x > 40"),
		block("BIG", framework.NormalNode, 5, ""),
		block("OK", framework.NormalNode, 6, ""),
		block("EXIT", framework.ExitNode, 7, ""),
	}
	edges := []framework.Edge{
		edge("ROOT", "T1", ""),
		edge("T1", "ZERO", "true"), edge("T1", "T2", "false"),
		edge("T2", "BIG", "true"), edge("T2", "OK", "false"),
		edge("ZERO", "EXIT", ""), edge("BIG", "EXIT", ""), edge("OK", "EXIT", ""),
	}
	return NewProgram("thrower", 2, -50, 50, blocks, edges, func(p *Probe, args []int) {
		x, y := args[0], args[1]
		p.Enter("ROOT")

		if p.Branch("T1", framework.OpEQ, x, y) {
			p.Enter("ZERO")
			panic("division by zero")
		}
		if p.Branch("T2", framework.OpGT, x, 40) {
			p.Enter("BIG")
			panic("value out of range")
		}
		p.Enter("OK")
		p.Enter("EXIT")
	})
}
