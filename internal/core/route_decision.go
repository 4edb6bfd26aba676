package core

type RouteAction int

const (
	ActionRenderEager RouteAction = iota
	ActionRenderCached
	ActionLoadLazy
	ActionRenderFallback
	ActionNotFound
)

func (a RouteAction) String() string {
	switch a {
	case ActionRenderEager:
		return "render-eager"
	case ActionRenderCached:
		return "render-cached"
	case ActionLoadLazy:
		return "load-lazy"
	case ActionRenderFallback:
		return "render-fallback"
	default:
		return "not-found"
	}
}

type RouteRequest struct {
	Matched     bool
	Lazy        bool
	Loaded      bool
	HasFallback bool
}

type RouteDecision struct {
	Action RouteAction
}

func DecideRoute(req RouteRequest) RouteDecision {
	if !req.Matched {
		if req.HasFallback {
			return RouteDecision{Action: ActionRenderFallback}
		}
		return RouteDecision{Action: ActionNotFound}
	}

	if !req.Lazy {
		return RouteDecision{Action: ActionRenderEager}
	}

	if req.Loaded {
		return RouteDecision{Action: ActionRenderCached}
	}

	return RouteDecision{Action: ActionLoadLazy}
}
