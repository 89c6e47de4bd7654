package entity

// Role 用户角色（固定集合，值与存储/令牌中的字符串一致）
type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleInspector       Role = "Inspector"
	RoleOperator        Role = "Operator"
	RoleTechEngineer    Role = "Tech Engineer"
	RoleQualityEngineer Role = "Quality Engineer"
)

// Roles 返回全部已知角色
func Roles() []Role {
	return []Role{RoleAdmin, RoleInspector, RoleOperator, RoleTechEngineer, RoleQualityEngineer}
}

// Valid 角色是否属于已知集合
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInspector, RoleOperator, RoleTechEngineer, RoleQualityEngineer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
