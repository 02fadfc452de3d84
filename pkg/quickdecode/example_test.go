package quickdecode_test

import (
	"fmt"
	"log"

	"github.com/ssargent/tagdecode/pkg/codeword"
	"github.com/ssargent/tagdecode/pkg/quickdecode"
)

// ExampleTable_Decode builds a 2x2 family with one codeword and corrects a
// single bit error.
func ExampleTable_Decode() {
	table, err := quickdecode.New([]uint64{0b1010}, 2, 1)
	if err != nil {
		log.Fatal(err)
	}

	for _, observed := range []uint64{0b1010, 0b1011, codeword.Rotate(0b1010, 2, 3), 0b1111} {
		e := table.Decode(observed)
		fmt.Printf("%04b: found=%t id=%d hamming=%d rotation=%d\n",
			observed, e.Found(), e.ID, e.Hamming, e.Rotation)
	}

	// Output:
	// 1010: found=true id=0 hamming=0 rotation=0
	// 1011: found=true id=0 hamming=1 rotation=0
	// 0011: found=true id=0 hamming=0 rotation=1
	// 1111: found=false id=65535 hamming=255 rotation=0
}
