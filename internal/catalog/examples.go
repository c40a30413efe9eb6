package catalog

import (
	"math/big"
	"math/rand/v2"

	"github.com/cockroachdb/errors"

	"drawrec/internal/callrec"
	"drawrec/internal/tracker"
)

func init() {
	register(&Example{
		Name:        "fib",
		Usage:       "fib <n>",
		Description: "naive Fibonacci, two calls per level",
		Arity:       1,
		Defaults:    []int{7},
		check:       between(0, 0, 25),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			return Fib(t, opts...)(args[0])
		},
	})
	register(&Example{
		Name:        "fastExp",
		Usage:       "fastExp <base> <exp>",
		Description: "exponentiation by squaring",
		Arity:       2,
		Defaults:    []int{17, 19},
		check:       between(1, 1, 1<<20),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			return FastExp(t, opts...)(big.NewInt(int64(args[0])), args[1])
		},
	})
	register(&Example{
		Name:        "gridTraveler",
		Usage:       "gridTraveler <rows> <cols>",
		Description: "memoized grid paths, memo table hidden from the graph",
		Arity:       2,
		Defaults:    []int{3, 3},
		check:       all(between(0, 0, 50), between(1, 0, 50)),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			grid := GridTraveler(t, opts...)
			return grid(callrec.Pos(args[0]), callrec.Pos(args[1]), callrec.KW("memo", map[[2]int]int{}))
		},
	})
	register(&Example{
		Name:        "willPanic",
		Usage:       "willPanic <depth>",
		Description: "panics once the argument reaches zero",
		Arity:       1,
		Defaults:    []int{5},
		check:       between(0, 0, 1000),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			return WillPanic(t, opts...)(args[0])
		},
	})
	register(&Example{
		Name:        "randomPanic",
		Usage:       "randomPanic <seed>",
		Description: "recurses until a seeded 1-in-26 draw fails",
		Arity:       1,
		Defaults:    []int{1},
		check:       between(0, 0, 1<<31-1),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			return RandomPanic(t, uint64(args[0]), opts...)()
		},
	})
	register(&Example{
		Name:        "ackermann",
		Usage:       "ackermann <m> <n>",
		Description: "Ackermann function, grows fast",
		Arity:       2,
		Defaults:    []int{2, 2},
		check:       all(between(0, 0, 3), between(1, 0, 4)),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			return Ackermann(t, opts...)(args[0], args[1])
		},
	})
	register(&Example{
		Name:        "hanoi",
		Usage:       "hanoi <disks>",
		Description: "Tower of Hanoi move count, pegs passed by keyword",
		Arity:       1,
		Defaults:    []int{3},
		check:       between(0, 0, 12),
		run: func(t *tracker.Tracker, args []int, opts []tracker.FuncOption) (any, error) {
			return Hanoi(t, opts...)(callrec.Pos(args[0]), callrec.KW("from", "A"), callrec.KW("to", "C"), callrec.KW("via", "B"))
		},
	})
}

// Fib returns a tracked naive Fibonacci: fib(0) = 0, fib(1) = 1.
func Fib(t *tracker.Tracker, opts ...tracker.FuncOption) func(int) (int, error) {
	var fib func(int) (int, error)
	fib = tracker.Wrap1(t, "fib", func(n int) (int, error) {
		if n < 2 {
			return n, nil
		}
		a, err := fib(n - 1)
		if err != nil {
			return 0, err
		}
		b, err := fib(n - 2)
		if err != nil {
			return 0, err
		}
		return a + b, nil
	}, opts...)
	return fib
}

// FastExp returns a tracked n**exp using n**exp == (n**(exp/2))**2, with an
// extra factor of n for odd exponents. exp must be at least 1.
func FastExp(t *tracker.Tracker, opts ...tracker.FuncOption) func(*big.Int, int) (*big.Int, error) {
	var fastExp func(*big.Int, int) (*big.Int, error)
	fastExp = tracker.Wrap2(t, "fastExp", func(n *big.Int, exp int) (*big.Int, error) {
		if exp < 1 {
			return nil, errors.Newf("exponent must be positive, got %d", exp)
		}
		if exp == 1 {
			return new(big.Int).Set(n), nil
		}
		half, err := fastExp(n, exp/2)
		if err != nil {
			return nil, err
		}
		out := new(big.Int).Mul(half, half)
		if exp%2 == 1 {
			out.Mul(out, n)
		}
		return out, nil
	}, opts...)
	return fastExp
}

// GridTraveler returns a tracked count of the right/down paths through a
// rows x cols grid. The memo keyword carries a map[[2]int]int shared by the
// whole recursion and is never rendered.
func GridTraveler(t *tracker.Tracker, opts ...tracker.FuncOption) func(...callrec.Arg) (int, error) {
	var grid func(...callrec.Arg) (int, error)
	opts = append([]tracker.FuncOption{tracker.IgnoreKeywords("memo")}, opts...)
	grid = tracker.WrapArgs(t, "gridTraveler", func(args callrec.Args) (int, error) {
		x, y := args.Int(0), args.Int(1)
		m, _ := args.Keyword("memo")
		memo, _ := m.(map[[2]int]int)
		if memo == nil {
			memo = map[[2]int]int{}
		}
		if v, ok := memo[[2]int{x, y}]; ok {
			return v, nil
		}
		switch {
		case x < 0 || y < 0:
			return 0, nil
		case x == 0 && y == 1:
			return 1, nil
		}
		a, err := grid(callrec.Pos(x-1), callrec.Pos(y), callrec.KW("memo", memo))
		if err != nil {
			return 0, err
		}
		b, err := grid(callrec.Pos(x), callrec.Pos(y-1), callrec.KW("memo", memo))
		if err != nil {
			return 0, err
		}
		memo[[2]int{x, y}] = a + b
		return a + b, nil
	}, opts...)
	return grid
}

// WillPanic returns a tracked countdown that panics at zero.
func WillPanic(t *tracker.Tracker, opts ...tracker.FuncOption) func(int) (int, error) {
	var willPanic func(int) (int, error)
	willPanic = tracker.Wrap1(t, "willPanic", func(x int) (int, error) {
		if x <= 0 {
			panic("Panic!")
		}
		return willPanic(x - 1)
	}, opts...)
	return willPanic
}

// RandomPanic returns a tracked function that recurses until a 1-in-26 draw
// from a generator seeded with seed comes up. It never returns normally.
func RandomPanic(t *tracker.Tracker, seed uint64, opts ...tracker.FuncOption) func() (int, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var randomPanic func() (int, error)
	randomPanic = tracker.Wrap0(t, "randomPanic", func() (int, error) {
		if rng.IntN(26) == 3 {
			return 0, errors.New("Panic!")
		}
		return randomPanic()
	}, opts...)
	return randomPanic
}

// Ackermann returns the tracked two-argument Ackermann-Péter function.
func Ackermann(t *tracker.Tracker, opts ...tracker.FuncOption) func(int, int) (int, error) {
	var ack func(int, int) (int, error)
	ack = tracker.Wrap2(t, "ackermann", func(m, n int) (int, error) {
		switch {
		case m == 0:
			return n + 1, nil
		case n == 0:
			return ack(m-1, 1)
		}
		inner, err := ack(m, n-1)
		if err != nil {
			return 0, err
		}
		return ack(m-1, inner)
	}, opts...)
	return ack
}

// Hanoi returns a tracked Tower of Hanoi solver that counts moves. Pegs are
// passed as the from, to and via keywords.
func Hanoi(t *tracker.Tracker, opts ...tracker.FuncOption) func(...callrec.Arg) (int, error) {
	var hanoi func(...callrec.Arg) (int, error)
	hanoi = tracker.WrapArgs(t, "hanoi", func(args callrec.Args) (int, error) {
		n := args.Int(0)
		if n == 0 {
			return 0, nil
		}
		from, _ := args.Keyword("from")
		to, _ := args.Keyword("to")
		via, _ := args.Keyword("via")
		a, err := hanoi(callrec.Pos(n-1), callrec.KW("from", from), callrec.KW("to", via), callrec.KW("via", to))
		if err != nil {
			return 0, err
		}
		b, err := hanoi(callrec.Pos(n-1), callrec.KW("from", via), callrec.KW("to", to), callrec.KW("via", from))
		if err != nil {
			return 0, err
		}
		return a + 1 + b, nil
	}, opts...)
	return hanoi
}
