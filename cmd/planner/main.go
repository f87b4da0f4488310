package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/heuristic"
	"github.com/rumbo-transit/rumbo_core/internal/loader"
	"github.com/rumbo-transit/rumbo_core/internal/models"
	"github.com/rumbo-transit/rumbo_core/internal/routing"
	"github.com/rumbo-transit/rumbo_core/internal/rules"
	"github.com/rumbo-transit/rumbo_core/internal/summary"
)

func main() {
	from := flag.String("from", "Portal del Norte", "origin station")
	to := flag.String("to", "Portal Suba", "destination station")
	criterionFlag := flag.String("criterion", "time", "optimization criterion: time | hops | transfers")
	dataPath := flag.String("data", "data/bogota_sitp.json", "network definition file")
	explain := flag.Bool("explain", false, "print the rules applied")
	flag.Parse()

	criterion, err := models.ParseCriterion(*criterionFlag)
	if err != nil {
		log.Fatalf("❌ %v (want time, hops, or transfers)", err)
	}

	cfg, err := loader.LoadFile(*dataPath)
	if err != nil {
		log.Fatalf("❌ Failed to load network: %v", err)
	}

	network, err := graph.NewNetwork(cfg)
	if err != nil {
		log.Fatalf("❌ Invalid network: %v", err)
	}

	engine := rules.NewEngine(network)
	planner := routing.NewPlanner(network, engine, heuristic.NewGeodesic(network))

	states, cost, err := planner.FindPath(*from, *to, criterion)
	if err != nil {
		var unknown *models.UnknownStationError
		if errors.As(err, &unknown) {
			fmt.Printf("Unknown station %q. Available stations:\n", unknown.Station)
			for _, s := range unknown.Known {
				fmt.Println(" -", s)
			}
			os.Exit(1)
		}
		if errors.Is(err, models.ErrNoRouteFound) {
			fmt.Println("No route found.")
			os.Exit(1)
		}
		log.Fatalf("❌ Search failed: %v", err)
	}

	route, err := summary.Summarize(network, engine, states, criterion, cost)
	if err != nil {
		log.Fatalf("❌ Failed to summarize route: %v", err)
	}

	fmt.Printf("Optimal route (criterion: %s):\n", criterion)
	printRoute(route)
	fmt.Println()
	fmt.Printf("Estimated time: %d min  |  Transfers: %d  |  Hops: %d\n",
		route.TotalTime, route.Transfers, route.Hops)

	if *explain {
		fmt.Println("\nRules applied:")
		fmt.Println("- Movement is allowed only along a declared link.")
		fmt.Println("- Changing line between consecutive links counts as a transfer.")
		fmt.Printf("- Cost = link time + %d min penalty per transfer (time criterion).\n", network.TransferPenalty())
		fmt.Println("- Stations touched by several lines are interchange nodes.")
	}
}

// printRoute renders the legs, marking line changes.
func printRoute(route *models.Route) {
	prevLine := ""
	for _, leg := range route.Legs {
		switch {
		case prevLine == "":
			fmt.Printf("%s ──(%s)→ %s\n", leg.From, leg.Line, leg.To)
		case leg.Transfer:
			fmt.Printf("[transfer to %s] %s ──(%s)→ %s\n", leg.Line, leg.From, leg.Line, leg.To)
		default:
			fmt.Printf("%s → %s\n", leg.From, leg.To)
		}
		prevLine = leg.Line
	}
}
