package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"btree/btree"
)

type Cli struct {
	scanner    *bufio.Scanner
	out        io.Writer
	tree       *btree.Tree[string]
	visualizer *btree.Visualizer[string]
}

func NewCli(s *bufio.Scanner, out io.Writer, t *btree.Tree[string]) *Cli {
	v := &btree.Visualizer[string]{
		Tree: t,
	}
	return &Cli{scanner: s, out: out, tree: t, visualizer: v}
}

// Start reads commands until EXIT or the end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Fprintf(c.out, `
B-Tree CLI (minimum degree %d)

Available Commands:
  INS <key>       Insert a key into the B-Tree
  DEL <key>       Remove one occurrence of a key from the B-Tree
  GET <key>       Locate a key in the B-Tree
  SHOW            Print the B-Tree level by level
  CHECK           Verify the B-Tree invariants
  HELP            Print this message
  EXIT            Terminate this session

`, c.tree.Degree())
}

func (c *Cli) printPrompt() {
	fmt.Fprint(c.out, "> ")
}

// processInput returns false when the session should end.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		fmt.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "ins":
		c.processInsertCommand(fields[1:])
	case "del":
		c.processDeleteCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "show":
		c.printTree()
	case "check":
		c.processCheckCommand()
	case "help":
		c.printHelp()
	case "exit":
		return false
	}
	return true
}

func (c *Cli) printTree() {
	fmt.Fprintln(c.out, c.tree)
	fmt.Fprint(c.out, c.visualizer.Visualize())
}

func (c *Cli) processInsertCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: INS <key>")
		return
	}
	c.tree.Insert(args[0])
	c.printTree()
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: DEL <key>")
		return
	}
	if !c.tree.Delete(args[0]) {
		fmt.Fprintln(c.out, "Key not found.")
		return
	}
	c.printTree()
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: GET <key>")
		return
	}
	n, idx, found := c.tree.Search(args[0])
	if !found {
		fmt.Fprintln(c.out, "Key not found.")
		return
	}
	keys := make([]string, n.NumKeys())
	for i := range keys {
		keys[i] = n.Key(i)
	}
	fmt.Fprintf(c.out, "Found at index %d of node [%s] (leaf: %t)\n", idx, strings.Join(keys, " "), n.IsLeaf())
}

func (c *Cli) processCheckCommand() {
	if err := c.tree.Verify(); err != nil {
		fmt.Fprintf(c.out, "Invariant violated: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "OK: %d keys, height %d\n", c.tree.Len(), c.tree.Height())
}
