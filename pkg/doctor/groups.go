package doctor

// GroupDefinition describes a check group and its member checks.
type GroupDefinition struct {
	ID          string
	Name        string
	Description string
	CheckIDs    []string
}

// groupDefinitions defines all check groups in display order.
var groupDefinitions = []GroupDefinition{
	{
		ID:          GroupSystem,
		Name:        "System",
		Description: "Package manager and workspace tooling",
		CheckIDs:    []string{IDApt, IDPython, IDGit, IDTmux, IDHtop},
	},
	{
		ID:          GroupService,
		Name:        "Service manager",
		Description: "systemd supervision for the bot process",
		CheckIDs:    []string{IDSystemctl, IDJournalctl},
	},
	{
		ID:          GroupFirewall,
		Name:        "Firewall",
		Description: "Packet filter and rule persistence",
		CheckIDs:    []string{IDIptables, IDNetfilterPersistent},
	},
}

// GetGroups returns all check group definitions.
func GetGroups() []GroupDefinition {
	return groupDefinitions
}

// GetGroupDefinition returns the definition for a group ID.
func GetGroupDefinition(groupID string) (GroupDefinition, bool) {
	for _, def := range groupDefinitions {
		if def.ID == groupID {
			return def, true
		}
	}
	return GroupDefinition{}, false
}
