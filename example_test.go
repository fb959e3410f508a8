package upskill_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// ExampleEngine_Quote prices a track directly, the way the stateless calculator does.
func ExampleEngine_Quote() {
	eng, err := upskill.New()
	if err != nil {
		log.Fatal(err)
	}

	q, err := eng.Quote(domain.TrackEngineer, domain.DeliveryOurLocation, 12)
	if err != nil {
		log.Fatal(err)
	}
	for _, item := range q.LineItems() {
		fmt.Printf("%-50s %12s\n", item.Label, item.Amount)
	}
	// Output:
	// Base price (up to 8 people, 4 workshops, x2.0)       120,000.00
	// Additional participants (4 x 15,000.00)               60,000.00
	// Travel surcharge                                           0.00
	// Subtotal                                             180,000.00
	// Volume discount (15%)                                -27,000.00
	// Total                                                153,000.00
}

// ExampleEngine_Advance shows the completion gate and a conditional question appearing.
func ExampleEngine_Advance() {
	eng, err := upskill.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	state := eng.Start(ctx, "demo")
	_, advanced, _ := eng.Advance(ctx, state)
	fmt.Println("advanced without an answer:", advanced)

	fmt.Println("questions:", eng.View(state).Total)
	state, _ = eng.Answer(ctx, state, catalog.QuestionAudience, []string{"mixed"})
	fmt.Println("questions:", eng.View(state).Total)

	state, advanced, _ = eng.Advance(ctx, state)
	fmt.Println("advanced:", advanced, "now at:", eng.View(state).Question.ID)
	// Output:
	// advanced without an answer: false
	// questions: 6
	// questions: 8
	// advanced: true now at: 2
}
