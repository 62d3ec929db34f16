package tools

// InjectContext implements the Context-Aware Tool Node (C6.1): merge
// teamId/leagueId from orchestrator state into a tool call's args when
// the tool declares it needs that field and the LLM omitted it.
func (r *Registry) InjectContext(name string, args map[string]interface{}, teamID, leagueID *string) map[string]interface{} {
	t, ok := r.Get(name)
	if !ok {
		return args
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if t.RequiresTeam && teamID != nil {
		if _, has := args["teamId"]; !has {
			args["teamId"] = *teamID
		}
	}
	if t.RequiresLeague && leagueID != nil {
		if _, has := args["leagueId"]; !has {
			args["leagueId"] = *leagueID
		}
	}
	return args
}
