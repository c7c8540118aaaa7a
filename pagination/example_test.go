package pagination_test

import (
	"fmt"

	"github.com/rise-and-shine/popreg/pagination"
)

type occupation struct {
	Name string `json:"name"`
}

// Example_usage shows the window of a search request and the envelope built from its result.
func Example_usage() {
	req := pagination.Request{Page: 2}
	req.Normalize()

	fmt.Printf("LIMIT %d OFFSET %d\n", req.Limit(), req.Offset())

	rows := []occupation{{Name: "Teacher"}, {Name: "Farmer"}}
	resp := pagination.NewResponse(req, rows, 12)

	fmt.Println(resp.Pagination.String())
	fmt.Println("has next:", resp.Pagination.HasNext())

	// Output:
	// LIMIT 10 OFFSET 10
	// page 2 of 2 (total: 12, size: 10)
	// has next: false
}

// Example_maxPageSize shows the optional page size cap.
func Example_maxPageSize() {
	req := pagination.Request{Size: 500}
	req.Normalize(pagination.WithMaxPageSize(100))

	fmt.Println(req.String())

	// Output:
	// page=1 size=100
}
