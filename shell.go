package main

import (
	"bufio"
	"os"

	"github.com/go-faker/faker/v4"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"btree/btree"
	"btree/cli"
)

func newShellCommand() *cobra.Command {
	var (
		degree         int
		shouldSeed     bool
		seedNumRecords int
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session on an empty tree of string keys",
		Run: func(cmd *cobra.Command, args []string) {
			tree, err := btree.New[string](degree)
			if err != nil {
				log.Fatal("failed to create tree", zap.Int("degree", degree), zap.Error(err))
			}
			if shouldSeed {
				seedTreeWithTestRecords(tree, seedNumRecords)
			}
			scanner := bufio.NewScanner(os.Stdin)
			demo := cli.NewCli(scanner, os.Stdout, tree)
			demo.Start()
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&degree, "degree", 3, "minimum degree of the tree")
	fs.BoolVar(&shouldSeed, "seed", false, "Seed the tree using keys created with go-faker.")
	fs.IntVar(&seedNumRecords, "records", 20, "Amount of keys to seed the tree with upon startup.")
	return cmd
}

func seedTreeWithTestRecords(t *btree.Tree[string], records int) {
	for i := 0; i < records; i++ {
		t.Insert(faker.Word() + faker.Word())
	}
}
