package handler

// registerForm is the body of POST /register.
type registerForm struct {
	Username string `form:"username" validate:"required,max=64,excludesall=/?#%,ne=.,ne=.."`
	Password string `form:"password" validate:"required,max=72"`
}

// loginForm is the body of POST /login.
type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// newItemForm is the body of POST /lists/:urlUserName. List names the target
// list and must match the path.
type newItemForm struct {
	NewItem string `form:"newItem" validate:"required,max=200"`
	List    string `form:"list"`
}

// deleteForm is the body of POST /delete.
type deleteForm struct {
	Checkbox string `form:"checkbox" validate:"required"`
	ListName string `form:"listName" validate:"required"`
}
