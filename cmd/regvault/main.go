// Package main 启动应用程序
package main

import "github.com/yeisme/regvault/pkg/cmd"

//	@title			regvault API
//	@version		1.1.8
//	@description	regvault 是一个并网法规文档管理服务，提供法规、附属文档与代码文件管理、参数表维护与 Excel 导入、C 参数数组生成、版本更新检查与数据同步等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
