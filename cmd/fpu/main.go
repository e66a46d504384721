package main

import (
	"go.brendoncarroll.net/star"

	"github.com/shogo82148/fpu/internal/fpucmd"
)

func main() {
	star.Main(fpucmd.Root())
}
