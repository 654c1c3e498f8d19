package planning

func robotDefinition() DomainDefinition {
	return DomainDefinition{
		Name:    "robot",
		Version: "1.0.0",
		Predicates: map[string]int{
			"On": 2, "Dry": 1, "Painted": 1,
		},
		Operators: []OperatorDefinition{
			{
				Name:           "climb-ladder",
				Preconditions:  []string{"On(Robot, Floor)", "Dry(Ladder)"},
				Postconditions: []string{"On(Robot, Ladder)", "¬On(Robot, Floor)"},
			},
			{
				Name:           "descend-ladder",
				Preconditions:  []string{"On(Robot, Ladder)", "Dry(Ladder)"},
				Postconditions: []string{"On(Robot, Floor)", "¬On(Robot, Ladder)"},
			},
			{
				Name:           "paint-ceiling",
				Preconditions:  []string{"On(Robot, Ladder)"},
				Postconditions: []string{"Painted(Ceiling)", "¬Dry(Ceiling)"},
			},
			{
				Name:           "paint-ladder",
				Preconditions:  []string{"On(Robot, Floor)"},
				Postconditions: []string{"Painted(Ladder)", "¬Dry(Ladder)"},
			},
		},
	}
}

func blocksDefinition() DomainDefinition {
	return DomainDefinition{
		Name:    "blocksworld",
		Version: "1.0.0",
		Operators: []OperatorDefinition{
			{
				Name:           "pickup",
				Parameters:     []string{"block"},
				Preconditions:  []string{"Clear(?block)", "On(?block, Table)"},
				Postconditions: []string{"Holding(?block)", "¬Clear(?block)", "¬On(?block, Table)"},
			},
			{
				Name:           "putdown",
				Parameters:     []string{"block"},
				Preconditions:  []string{"Holding(?block)"},
				Postconditions: []string{"On(?block, Table)", "Clear(?block)", "¬Holding(?block)"},
			},
			{
				Name:           "stack",
				Parameters:     []string{"block1", "block2"},
				Preconditions:  []string{"Holding(?block1)", "Clear(?block2)"},
				Postconditions: []string{"On(?block1, ?block2)", "Clear(?block1)", "¬Holding(?block1)", "¬Clear(?block2)"},
			},
			{
				Name:           "unstack",
				Parameters:     []string{"block1", "block2"},
				Preconditions:  []string{"On(?block1, ?block2)", "Clear(?block1)"},
				Postconditions: []string{"Holding(?block1)", "Clear(?block2)", "¬On(?block1, ?block2)", "¬Clear(?block1)"},
			},
		},
	}
}

func mustGround(lib *Library, name string, b Bindings) *Operator {
	op, err := lib.Ground(name, b)
	if err != nil {
		panic(err)
	}
	return op
}
