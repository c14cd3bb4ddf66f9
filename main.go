package main

import (
	"os"

	ytgenrecmd "github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/cmd"
)

func main() {
	root := ytgenrecmd.NewRootCommand(ytgenrecmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
