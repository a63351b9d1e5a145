package workflow_test

import (
	"fmt"

	"github.com/lvillar/casereport/workflow"
)

func ExampleHumanSize() {
	for _, n := range []int64{0, 512, 1536, 1 << 20} {
		fmt.Println(workflow.HumanSize(n))
	}
	// Output:
	// 0 B
	// 512 B
	// 1.5 KB
	// 1 MB
}
