package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RolePlanner,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@example.com",
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var skillPool = []string{"前端", "后端", "数据库", "运维", "测试", "设计", "算法"}

// 使用 Fisher-Yates 洗牌算法来生成一个随机的技能子集
func generateRandomSkillSubset(skills []string, max int) []string {
	skillsCopy := append([]string{}, skills...)

	for i := len(skillsCopy) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		skillsCopy[i], skillsCopy[j] = skillsCopy[j], skillsCopy[i]
	}

	n := rand.Intn(max) + 1
	if n > len(skillsCopy) {
		n = len(skillsCopy)
	}

	return skillsCopy[:n]
}

// GenerateRandomProblemInstance 随机生成一个合法的问题实例
func GenerateRandomProblemInstance() *domain.ProblemInstance {
	horizon := int32(rand.Intn(10) + 5) // 5~14 天

	qualifications := generateRandomSkillSubset(skillPool, 5)

	staffNum := rand.Intn(6) + 3
	staff := make([]domain.Employee, staffNum)
	usedNames := make(map[string]bool)
	for i := range staff {
		name := GenerateRandomChineseName()
		for usedNames[name] {
			name = GenerateRandomChineseName()
		}
		usedNames[name] = true

		vacationNum := rand.Intn(3)
		vacations := make([]int32, 0, vacationNum)
		usedDays := make(map[int32]bool)
		for len(vacations) < vacationNum {
			day := int32(rand.Intn(int(horizon)) + 1)
			if usedDays[day] {
				continue
			}
			usedDays[day] = true
			vacations = append(vacations, day)
		}

		staff[i] = domain.Employee{
			Name:           name,
			Qualifications: generateRandomSkillSubset(qualifications, 3),
			Vacations:      vacations,
		}
	}

	jobNum := rand.Intn(5) + 2
	jobs := make([]domain.Job, jobNum)
	for i := range jobs {
		requirements := make(map[string]int32)
		for _, qualification := range generateRandomSkillSubset(qualifications, 3) {
			requirements[qualification] = int32(rand.Intn(3) + 1)
		}

		jobs[i] = domain.Job{
			Name:                        fmt.Sprintf("项目%d", i+1),
			Gain:                        int64(rand.Intn(20)+1) * 5,
			DueDate:                     int32(rand.Intn(int(horizon))) + 1,
			DailyPenalty:                int64(rand.Intn(10) + 1),
			WorkingDaysPerQualification: requirements,
		}
	}

	return &domain.ProblemInstance{
		Name:           "实例" + GenerateRandomID(3, 3),
		Horizon:        horizon,
		Qualifications: qualifications,
		Staff:          staff,
		Jobs:           jobs,
	}
}
