// spritemesh turns sprite images into render meshes and colliders.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "build", "b":
		err = cmdBuild(args)
	case "info":
		err = cmdInfo(args)
	case "batch":
		err = cmdBatch(args)
	case "watch":
		err = cmdWatch(args)
	case "probe":
		err = cmdProbe(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spritemesh - sprite to mesh and collider builder

Usage:
  spritemesh <command> [options]

Commands:
  build <image> [output]     Build one sprite and export it (.glb, .gltf, .obj)
  info <image>               Show image and outline statistics
  batch <dir>                Build every matching sprite in a directory
  watch <dir>                Rebuild sprites in a directory when they change
  probe <image> <x> <y>      Report which collider box covers a pixel

Common options:
  -config <file>             Config file (.yaml or .toml)
  -mesh flat2d|full3d        Mesh type
  -collider none|mesh|aabb|boxes
  -policy max_count|min_area Box policy
  -debug                     Debug logging

Examples:
  spritemesh build -mesh full3d hero.png hero.glb
  spritemesh batch -workers 8 -format obj ./sprites
  spritemesh watch -config spritemesh.toml ./sprites
  spritemesh probe -collider boxes hero.png 12 30`)
}
