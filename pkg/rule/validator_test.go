package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/regvault/pkg/rule"
)

// regulationForm 用于测试 ValidateStruct 的法规表单.
type regulationForm struct {
	Code   string `rule:"required,min=1,max=128"`
	Status string `rule:"omitempty,oneof=draft active deprecated archived"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	valid := regulationForm{Code: "VDE-AR-N 4105", Status: "active"}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 已废止状态是合法枚举值
	deprecated := regulationForm{Code: "VDEW 2001", Status: "deprecated"}
	if err := rule.ValidateStruct(deprecated); err != nil {
		t.Errorf("Expected no error for deprecated status, got %v", err)
	}

	// 缺少编号
	missingCode := regulationForm{Status: "active"}
	if err := rule.ValidateStruct(missingCode); err == nil {
		t.Error("Expected error for missing code, got nil")
	}

	// 状态不在枚举里
	badStatus := regulationForm{Code: "G99", Status: "retired"}
	if err := rule.ValidateStruct(badStatus); err == nil {
		t.Error("Expected error for invalid status, got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("https://example.com/version.json", "required,url"); err != nil {
		t.Errorf("Expected no error for valid url, got %v", err)
	}

	if err := rule.ValidateVar("not a url", "required,url"); err == nil {
		t.Error("Expected error for invalid url, got nil")
	}

	if err := rule.ValidateVar(50, "min=1,max=200"); err != nil {
		t.Errorf("Expected no error for valid page size, got %v", err)
	}

	if err := rule.ValidateVar(0, "min=1,max=200"); err == nil {
		t.Error("Expected error for page size below minimum, got nil")
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	// 协议寄存器地址形如 0x3010
	err := rule.RegisterValidation("protocol_addr", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	if err := rule.ValidateVar("0x3010", "protocol_addr"); err != nil {
		t.Errorf("Expected no error for valid protocol address, got %v", err)
	}

	if err := rule.ValidateVar("3010", "protocol_addr"); err == nil {
		t.Error("Expected error for address without 0x prefix, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("regulation_code", "required,min=1,max=128")

	if err := rule.ValidateVar("EN 50549-1", "regulation_code"); err != nil {
		t.Errorf("Expected no error for valid code with alias, got %v", err)
	}

	if err := rule.ValidateVar("", "regulation_code"); err == nil {
		t.Error("Expected error for empty code with alias, got nil")
	}
}
