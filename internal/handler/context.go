package handler

type ContextKey string

var (
	RoleCtxKey         ContextKey = "role"
	SubCtxKey          ContextKey = "sub"
	MyInfoCtx          ContextKey = "myInfo"
	UserInfoCtx        ContextKey = "userInfo"
	ProblemInstanceCtx ContextKey = "problemInstance"
	SolveTaskCtx       ContextKey = "solveTask"
)
