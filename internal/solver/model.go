package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

// Parameters: 排班策略参数
type Parameters struct {
	MaxJobsPerEmployee int32   // 每名员工最多参与的项目数
	MaxJobDuration     int32   // 项目从开工到完工最多跨越的天数（含首尾）
	SolutionCount      int32   // 请求的解数量，1 表示只要最优解
	RelativeGap        float64 // 解池允许的相对最优间隙
	TimeLimitSeconds   float64 // 总求解时限（秒），0 表示不限制
}

// variables: 模型中全部决策变量的强类型句柄
// 统一用 员工/项目/技能/日 的下标来索引，绝不通过解析变量名找回变量
type variables struct {
	assign   [][][][]cpmodel.BoolVar // assign[e][j][q][t]，t 为日历日减一
	complete []cpmodel.BoolVar       // complete[j]：项目 j 是否完整完成
	lateness []cpmodel.IntVar        // lateness[j]：项目 j 的延期天数
	end      []cpmodel.IntVar        // end[j]：项目 j 的完工日
	start    []cpmodel.IntVar        // start[j]：项目 j 的开工日
	onJob    [][]cpmodel.BoolVar     // onJob[e][j]：员工 e 是否参与项目 j
}

// Model: 构建完成、可以交给求解器的模型
type Model struct {
	instance *domain.ProblemInstance
	params   *Parameters
	proto    *cmpb.CpModelProto
	vars     *variables
}
