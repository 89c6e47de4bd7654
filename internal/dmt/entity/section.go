package entity

import "fmt"

// Section DMT表单的五个分区，每个分区由固定角色负责填写
type Section int

const (
	SectionGeneral  Section = iota + 1 // Section 1: 基础信息（Inspector）
	SectionDefect                      // Section 2: 缺陷描述（Inspector）
	SectionAnalysis                    // Section 3: 过程分析（Operator / Tech Engineer）
	SectionEngineer                    // Section 4: 工程处置（Tech Engineer）
	SectionQuality                     // Section 5: 质量关闭（Quality Engineer）
)

// Sections 返回全部分区
func Sections() []Section {
	return []Section{SectionGeneral, SectionDefect, SectionAnalysis, SectionEngineer, SectionQuality}
}

func (s Section) String() string {
	return fmt.Sprintf("Section %d", int(s))
}
