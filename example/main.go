package main

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pthm/wcmp"
	"github.com/pthm/wcmp/example/components"
	"github.com/pthm/wcmp/lib/dom"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	wcmp.SetLogger(logger)

	reg := wcmp.NewRegistry(wcmp.WithMetrics(wcmp.NewMetrics(prometheus.NewRegistry())))
	reg.OnError = func(in *wcmp.Instance, err error) {
		logger.Error("component error", zap.String("tag", in.Tag()), zap.Error(err))
	}
	if _, err := components.RegisterCounter(reg); err != nil {
		log.Fatal(err)
	}

	// Markup attributes win over the initial state.
	doc := dom.NewDocument()
	el := dom.NewElement(components.CounterTag)
	el.SetAttribute("count-x", "3")
	in, err := reg.Upgrade(el)
	if err != nil {
		log.Fatal(err)
	}
	if err := doc.Append(el); err != nil {
		log.Fatal(err)
	}

	counter := components.NewCounter(in)
	_ = counter.SetOnchange(func(ev *dom.Event) {
		fmt.Printf("change: %v\n", ev.Detail)
		if n, _ := ev.Detail.(int); n > 4 {
			ev.PreventDefault()
		}
	})

	_ = counter.Increment()
	_ = counter.Increment()
	el.SetAttribute("count-x", "10")
	_ = counter.SetHidden(true)

	fmt.Println(doc.Root().OuterHTML())

	doc.Remove(el)
	if err := counter.Increment(); wcmp.IsStale(err) {
		fmt.Println("counter disconnected")
	}
}
