package farm

import "strings"

type intentSpec struct {
	TakesLot bool
	Validate func(Intent) bool
	Apply    func(*Engine, Intent) Outcome
}

func intentRegistry() map[IntentType]intentSpec {
	return map[IntentType]intentSpec{
		IntentClick:          {TakesLot: true, Validate: validateLotParams, Apply: func(e *Engine, in Intent) Outcome { return e.Click(in.Lot, in.Crop) }},
		IntentPlant:          {TakesLot: true, Validate: validateLotCropParams, Apply: func(e *Engine, in Intent) Outcome { return e.Plant(in.Lot, in.Crop) }},
		IntentHarvest:        {TakesLot: true, Validate: validateLotParams, Apply: func(e *Engine, in Intent) Outcome { return e.Harvest(in.Lot) }},
		IntentHarvestAll:     {Validate: validateNoParams, Apply: func(e *Engine, _ Intent) Outcome { return e.HarvestAll() }},
		IntentPlantAll:       {Validate: validateCropParams, Apply: func(e *Engine, in Intent) Outcome { return e.PlantAll(in.Crop) }},
		IntentSell:           {Validate: validateSellParams, Apply: applySell},
		IntentSellAll:        {Validate: validateCropParams, Apply: func(e *Engine, in Intent) Outcome { return e.SellAll(in.Crop) }},
		IntentBuyLot:         {Validate: validateNoParams, Apply: func(e *Engine, _ Intent) Outcome { return e.BuyLot() }},
		IntentUnlockHops:     {Validate: validateNoParams, Apply: func(e *Engine, _ Intent) Outcome { return e.UnlockHops() }},
		IntentUnlockPumpkins: {Validate: validateNoParams, Apply: func(e *Engine, _ Intent) Outcome { return e.UnlockPumpkins() }},
		IntentBuyScythe:      {Validate: validateNoParams, Apply: func(e *Engine, _ Intent) Outcome { return e.BuyScythe() }},
		IntentBuyPlanter:     {Validate: validateNoParams, Apply: func(e *Engine, _ Intent) Outcome { return e.BuyPlanter() }},
	}
}

var registry = intentRegistry()

func SupportedIntents() []IntentType {
	return []IntentType{
		IntentClick,
		IntentPlant,
		IntentHarvest,
		IntentHarvestAll,
		IntentPlantAll,
		IntentSell,
		IntentSellAll,
		IntentBuyLot,
		IntentUnlockHops,
		IntentUnlockPumpkins,
		IntentBuyScythe,
		IntentBuyPlanter,
	}
}

// IntentTakesLot reports whether the intent addresses a single lot.
func IntentTakesLot(t IntentType) bool {
	return registry[t].TakesLot
}

func IsSupportedIntent(t IntentType) bool {
	_, ok := registry[t]
	return ok
}

// Apply routes a typed intent to the matching operation.
func (e *Engine) Apply(in Intent) Outcome {
	in.Type = IntentType(strings.TrimSpace(string(in.Type)))
	in.Crop = CropID(strings.TrimSpace(string(in.Crop)))
	handler, ok := registry[in.Type]
	if !ok {
		return rejected("Unknown action %q!", in.Type)
	}
	if !handler.Validate(in) {
		return rejected("Invalid parameters for %s!", in.Type)
	}
	return handler.Apply(e, in)
}

func applySell(e *Engine, in Intent) Outcome {
	amount := in.Amount
	if amount == 0 {
		amount = 1
	}
	return e.Sell(in.Crop, amount)
}

func validateNoParams(Intent) bool { return true }

func validateLotParams(in Intent) bool { return in.Lot >= 0 }

func validateCropParams(in Intent) bool { return in.Crop != "" }

func validateLotCropParams(in Intent) bool {
	return validateLotParams(in) && validateCropParams(in)
}

func validateSellParams(in Intent) bool {
	return validateCropParams(in) && in.Amount >= 0
}
