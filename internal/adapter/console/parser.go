package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tilefarm/internal/domain/farm"
)

var ErrUnknownCommand = errors.New("unknown command")

type CommandKind int

const (
	CommandIntent CommandKind = iota
	CommandHelp
	CommandSignOut
	CommandQuit
)

type Command struct {
	Kind   CommandKind
	Intent farm.Intent
}

const Help = `commands:
  click N [crop]     plant on an empty lot or harvest a ready one
  plant N crop       plant a seed on lot N
  harvest N          harvest lot N
  harvestall         harvest every ready lot (scythe)
  plantall crop      fill every empty lot (planter)
  sell crop [n]      sell n, keeping one seed
  sellall crop       sell all but one
  buylot             buy an empty lot
  unlock hops|pumpkins
  buy scythe|planter
  signout
  quit`

// Parse turns one input line into a command. Lot numbers are 1-based on the
// command line and 0-based in the intent.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}
	args := fields[1:]
	switch fields[0] {
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "signout":
		return Command{Kind: CommandSignOut}, nil
	case "click":
		lot, err := lotArg(args, 1, 2)
		if err != nil {
			return Command{}, err
		}
		in := farm.Intent{Type: farm.IntentClick, Lot: lot}
		if len(args) == 2 {
			in.Crop = farm.CropID(args[1])
		}
		return intent(in), nil
	case "plant":
		lot, err := lotArg(args, 2, 2)
		if err != nil {
			return Command{}, err
		}
		return intent(farm.Intent{Type: farm.IntentPlant, Lot: lot, Crop: farm.CropID(args[1])}), nil
	case "harvest":
		lot, err := lotArg(args, 1, 1)
		if err != nil {
			return Command{}, err
		}
		return intent(farm.Intent{Type: farm.IntentHarvest, Lot: lot}), nil
	case "harvestall":
		return noArgs(args, farm.Intent{Type: farm.IntentHarvestAll})
	case "plantall":
		if len(args) != 1 {
			return Command{}, usage("plantall crop")
		}
		return intent(farm.Intent{Type: farm.IntentPlantAll, Crop: farm.CropID(args[0])}), nil
	case "sell":
		if len(args) < 1 || len(args) > 2 {
			return Command{}, usage("sell crop [n]")
		}
		amount := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return Command{}, usage("sell crop [n]")
			}
			amount = n
		}
		return intent(farm.Intent{Type: farm.IntentSell, Crop: farm.CropID(args[0]), Amount: amount}), nil
	case "sellall":
		if len(args) != 1 {
			return Command{}, usage("sellall crop")
		}
		return intent(farm.Intent{Type: farm.IntentSellAll, Crop: farm.CropID(args[0])}), nil
	case "buylot":
		return noArgs(args, farm.Intent{Type: farm.IntentBuyLot})
	case "unlock":
		if len(args) == 1 {
			switch args[0] {
			case "hops":
				return intent(farm.Intent{Type: farm.IntentUnlockHops}), nil
			case "pumpkins", "pumpkin":
				return intent(farm.Intent{Type: farm.IntentUnlockPumpkins}), nil
			}
		}
		return Command{}, usage("unlock hops|pumpkins")
	case "buy":
		if len(args) == 1 {
			switch args[0] {
			case "scythe":
				return intent(farm.Intent{Type: farm.IntentBuyScythe}), nil
			case "planter":
				return intent(farm.Intent{Type: farm.IntentBuyPlanter}), nil
			}
		}
		return Command{}, usage("buy scythe|planter")
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
}

func intent(in farm.Intent) Command {
	return Command{Kind: CommandIntent, Intent: in}
}

func noArgs(args []string, in farm.Intent) (Command, error) {
	if len(args) != 0 {
		return Command{}, usage(string(in.Type))
	}
	return intent(in), nil
}

func lotArg(args []string, minArgs, maxArgs int) (int, error) {
	if len(args) < minArgs || len(args) > maxArgs {
		return 0, usage("lot number required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, usage("lot number must be 1 or more")
	}
	return n - 1, nil
}

func usage(msg string) error {
	return fmt.Errorf("%w: usage: %s", ErrUnknownCommand, msg)
}
